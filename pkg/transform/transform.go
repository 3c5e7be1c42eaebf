// Package transform turns merged records into rows of an Odoo product import.
// It only reads records; template or mapping changes never alter them.
package transform

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/logging"
	"github.com/agentstation/skumerge/pkg/records"
	"github.com/agentstation/skumerge/pkg/schema"
)

// Output is a converted table.
type Output struct {
	Template string     `json:"template" yaml:"template"`
	Headers  []string   `json:"headers" yaml:"headers"`
	Rows     [][]string `json:"rows" yaml:"rows"`
}

// Len returns the number of data rows.
func (o *Output) Len() int {
	return len(o.Rows)
}

// Transformer converts merged records with fixed options.
type Transformer struct {
	opts     Options
	registry *schema.Registry
	logger   *zerolog.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithRegistry sets the registry that names the grams-authoring source.
func WithRegistry(registry *schema.Registry) Option {
	return func(t *Transformer) {
		if registry != nil {
			t.registry = registry
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New creates a Transformer. The options are copied and validated.
func New(opts Options, options ...Option) (*Transformer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	t := &Transformer{
		opts:     opts.Clone(),
		registry: schema.Default(),
		logger:   logging.Default(),
	}
	for _, o := range options {
		o(t)
	}
	return t, nil
}

// Transform converts recs into one row each, in order. If any record
// fails, no output is returned and the error names that record.
func (t *Transformer) Transform(recs []*records.MergedRecord) (*Output, error) {
	headers, err := t.opts.Headers()
	if err != nil {
		return nil, err
	}

	out := &Output{
		Template: t.opts.Template,
		Headers:  headers,
		Rows:     make([][]string, 0, len(recs)),
	}
	for i, rec := range recs {
		row, err := t.row(rec, headers)
		if err != nil {
			t.logger.Error().Err(err).Int("index", i).Msg("Conversion aborted")
			return nil, err
		}
		out.Rows = append(out.Rows, row)
	}

	t.logger.Info().
		Str("template", out.Template).
		Int("columns", len(out.Headers)).
		Int("rows", out.Len()).
		Msg("Converted records")
	return out, nil
}

func (t *Transformer) row(rec *records.MergedRecord, headers []string) (row []string, err error) {
	var sku, field string
	defer func() {
		if r := recover(); r != nil {
			row = nil
			err = errors.NewTransformError(sku, field, fmt.Errorf("%v", r))
		}
	}()

	if rec == nil {
		return nil, errors.NewTransformError("", "", errors.New("nil record"))
	}
	sku = rec.SKU

	row = make([]string, len(headers))
	for i, out := range headers {
		field = out
		row[i] = t.value(rec, out)
	}
	return row, nil
}

func (t *Transformer) value(rec *records.MergedRecord, out string) string {
	var value string
	if src, ok := t.opts.SourceField(out); ok {
		value = rec.Value(src)
	}
	if value == "" {
		value = defaultValue(out, t.opts)
	}
	if value == "" {
		return ""
	}

	if t.opts.CleanHTML && isDescriptive(out) {
		value = cleanHTML(value)
	}
	if t.opts.NormalizePrices && isMonetary(out) {
		value = normalizePrice(value)
	}
	if isBoolean(out) {
		value = normalizeBool(value)
	}
	if out == "weight" && t.opts.ConvertGramWeights && rec.HasSource(t.registry.GramsSource()) {
		value = gramsToPounds(value)
	}
	return value
}
