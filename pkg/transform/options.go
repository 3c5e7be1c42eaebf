package transform

import (
	"fmt"
	"sort"

	"github.com/agentstation/skumerge/pkg/constants"
	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/schema"
)

// Options control how merged records become output rows.
type Options struct {
	Template string `json:"template" yaml:"template" mapstructure:"template"`

	// Mapping overrides the default output field to canonical field mapping.
	// An empty canonical field leaves the output field to defaults only.
	Mapping map[string]schema.CanonicalField `json:"mapping,omitempty" yaml:"mapping,omitempty" mapstructure:"mapping"`

	// Disabled output fields are dropped from the header and every row.
	Disabled map[string]bool `json:"disabled,omitempty" yaml:"disabled,omitempty" mapstructure:"disabled"`

	CleanHTML          bool   `json:"clean_html" yaml:"clean_html" mapstructure:"clean_html"`
	NormalizePrices    bool   `json:"normalize_prices" yaml:"normalize_prices" mapstructure:"normalize_prices"`
	ConvertGramWeights bool   `json:"convert_gram_weights" yaml:"convert_gram_weights" mapstructure:"convert_gram_weights"`
	DefaultType        string `json:"default_type" yaml:"default_type" mapstructure:"default_type"`
	DefaultCategory    string `json:"default_category" yaml:"default_category" mapstructure:"default_category"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Template:           constants.DefaultTemplate,
		CleanHTML:          true,
		NormalizePrices:    true,
		ConvertGramWeights: true,
		DefaultType:        constants.DefaultProductType,
	}
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	c := o
	if o.Mapping != nil {
		c.Mapping = make(map[string]schema.CanonicalField, len(o.Mapping))
		for k, v := range o.Mapping {
			c.Mapping[k] = v
		}
	}
	if o.Disabled != nil {
		c.Disabled = make(map[string]bool, len(o.Disabled))
		for k, v := range o.Disabled {
			c.Disabled[k] = v
		}
	}
	return c
}

// Validate checks the template name and every mapped canonical field.
func (o Options) Validate() error {
	if _, err := schema.LookupTemplate(o.Template); err != nil {
		return err
	}
	for out, field := range o.Mapping {
		if field != "" && !field.IsValid() {
			return errors.NewValidationError("mapping", out, fmt.Sprintf("unknown canonical field %q", field))
		}
	}
	return nil
}

// SourceField returns the canonical field feeding an output field.
func (o Options) SourceField(out string) (schema.CanonicalField, bool) {
	if f, ok := o.Mapping[out]; ok {
		return f, f != ""
	}
	f, ok := schema.DefaultMapping()[out]
	return f, ok
}

// EffectiveMapping returns the mapping for every field of the template,
// including fields that only receive defaults (mapped to "").
func (o Options) EffectiveMapping() (map[string]schema.CanonicalField, error) {
	tmpl, err := schema.LookupTemplate(o.Template)
	if err != nil {
		return nil, err
	}
	m := make(map[string]schema.CanonicalField, len(tmpl.Fields))
	for _, out := range tmpl.Fields {
		f, _ := o.SourceField(out)
		m[out] = f
	}
	return m, nil
}

// Headers returns the template fields that are not disabled, in template order.
func (o Options) Headers() ([]string, error) {
	tmpl, err := schema.LookupTemplate(o.Template)
	if err != nil {
		return nil, err
	}
	headers := make([]string, 0, len(tmpl.Fields))
	for _, f := range tmpl.Fields {
		if !o.Disabled[f] {
			headers = append(headers, f)
		}
	}
	return headers, nil
}

// DisabledFields returns the disabled output fields, sorted.
func (o Options) DisabledFields() []string {
	var out []string
	for f, off := range o.Disabled {
		if off {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}
