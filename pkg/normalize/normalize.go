// Package normalize translates parsed rows from their source-specific column
// names into canonical fields.
package normalize

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/skumerge/pkg/intake"
	"github.com/agentstation/skumerge/pkg/logging"
	"github.com/agentstation/skumerge/pkg/records"
	"github.com/agentstation/skumerge/pkg/schema"
)

// Normalizer maps rows onto canonical fields using a schema registry.
type Normalizer struct {
	registry *schema.Registry
	logger   *zerolog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// New creates a Normalizer. A nil registry selects schema.Default().
func New(registry *schema.Registry, opts ...Option) *Normalizer {
	if registry == nil {
		registry = schema.Default()
	}
	n := &Normalizer{registry: registry, logger: logging.Default()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts every row of f into a SourceRecord, preserving row order.
// Files from an unknown source yield records without values.
func (n *Normalizer) Normalize(f *intake.File) []*records.SourceRecord {
	fields := n.registry.FieldsFor(f.Source)
	out := make([]*records.SourceRecord, 0, len(f.Rows))

	for _, row := range f.Rows {
		rec := &records.SourceRecord{
			Source: f.Source,
			File:   f.Name,
			Row:    row.Number,
			Values: make(map[schema.CanonicalField]string, len(fields)),
		}
		for _, field := range fields {
			col, _ := n.registry.Column(field, f.Source)
			if v := strings.TrimSpace(row.Values[col]); v != "" {
				rec.Values[field] = v
			}
		}
		out = append(out, rec)
	}

	n.logger.Debug().
		Str("file", f.Name).
		Str("source", f.Source.String()).
		Int("records", len(out)).
		Msg("Normalized file")
	return out
}

// NormalizeAll normalizes files in order and concatenates the records.
func (n *Normalizer) NormalizeAll(files []*intake.File) []*records.SourceRecord {
	var out []*records.SourceRecord
	for _, f := range files {
		out = append(out, n.Normalize(f)...)
	}
	return out
}
