package schema

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/skumerge/pkg/errors"
)

// Overrides adjusts the registry per field. Columns replace the listed
// sources' column names (an empty name removes the mapping); Priority
// replaces the whole preference list when set.
//
//	fields:
//	  list_price:
//	    columns:
//	      cin7: PriceTier2
//	    priority: [cin7, shopify, zoho]
type Overrides struct {
	Fields map[string]FieldOverride `yaml:"fields"`
}

// FieldOverride is the per-field part of Overrides.
type FieldOverride struct {
	Columns  map[string]string `yaml:"columns"`
	Priority []string          `yaml:"priority"`
}

// ParseOverrides decodes an overrides document.
func ParseOverrides(data []byte) (*Overrides, error) {
	return parseOverrides(data, "")
}

func parseOverrides(data []byte, file string) (*Overrides, error) {
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, errors.WrapParse("yaml", file, err)
	}
	return &o, nil
}

// LoadOverrides reads and decodes an overrides file.
func LoadOverrides(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return parseOverrides(data, path)
}

// WithOverrides returns a new registry with o applied on top of r.
// The result is validated like any other registry.
func (r *Registry) WithOverrides(o *Overrides) (*Registry, error) {
	columns := make(map[CanonicalField]Mapping, len(r.columns))
	priorities := make(map[CanonicalField][]SourceSystem, len(r.priorities))
	for _, e := range r.Entries() {
		columns[e.Field] = e.Columns
		priorities[e.Field] = e.Priority
	}
	if o == nil {
		return New(columns, priorities)
	}

	for name, fo := range o.Fields {
		field, err := ParseField(name)
		if err != nil {
			return nil, err
		}
		for srcName, col := range fo.Columns {
			src, err := ParseSourceSystem(srcName)
			if err != nil {
				return nil, err
			}
			if col == "" {
				delete(columns[field], src)
				continue
			}
			columns[field][src] = col
		}
		if len(fo.Priority) > 0 {
			order := make([]SourceSystem, 0, len(fo.Priority))
			for _, srcName := range fo.Priority {
				src, err := ParseSourceSystem(srcName)
				if err != nil {
					return nil, err
				}
				order = append(order, src)
			}
			priorities[field] = order
		}
	}

	return New(columns, priorities)
}
