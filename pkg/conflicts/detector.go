package conflicts

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/skumerge/pkg/logging"
	"github.com/agentstation/skumerge/pkg/records"
	"github.com/agentstation/skumerge/pkg/schema"
)

// Option configures a Detector or Resolver.
type Option func(*config)

type config struct {
	registry *schema.Registry
	logger   *zerolog.Logger
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = schema.Default()
	}
	if c.logger == nil {
		c.logger = logging.Default()
	}
	return c
}

// WithRegistry sets the registry used to order sources within a group.
func WithRegistry(registry *schema.Registry) Option {
	return func(c *config) {
		c.registry = registry
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Detector scans merged records for disagreeing fields.
type Detector struct {
	*config
}

// NewDetector creates a Detector.
func NewDetector(opts ...Option) *Detector {
	return &Detector{config: newConfig(opts)}
}

// Detect builds a ledger over recs. A conflict exists on a field when the
// trimmed non-empty values of the record's contributors are not all equal.
// Records with a single contributor are skipped.
func (d *Detector) Detect(recs []*records.MergedRecord) *Ledger {
	ledger := newLedger(d.registry)

	for _, rec := range recs {
		if rec.IsSingleContributor() {
			continue
		}
		for _, field := range schema.Fields() {
			if c := detectField(rec, field); c != nil {
				ledger.add(c)
			}
		}
	}

	d.logger.Debug().
		Int("records", len(recs)).
		Int("conflicts", ledger.Total()).
		Int("fields", len(ledger.Fields())).
		Msg("Detected field conflicts")
	return ledger
}

func detectField(rec *records.MergedRecord, field schema.CanonicalField) *FieldConflict {
	var values []SourceValue
	distinct := make(map[string]struct{})
	for _, c := range rec.Contributors {
		raw, ok := c.Get(field)
		if !ok {
			continue
		}
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		distinct[v] = struct{}{}
		values = append(values, SourceValue{Source: c.Source, Value: raw, File: c.File, Row: c.Row})
	}
	if len(distinct) < 2 {
		return nil
	}

	current, _ := rec.Get(field)
	return &FieldConflict{
		SKU:          rec.SKU,
		Field:        field,
		Values:       values,
		Selected:     current.Value,
		ActualSource: current.Source,
		record:       rec,
	}
}
