// Package schema holds the static reconciliation schema: the canonical
// product fields, the column name each source system exports them under,
// the per-field source priority, and the Odoo output templates.
package schema

import (
	"fmt"

	"github.com/agentstation/skumerge/pkg/errors"
)

// Mapping lists the column name each source system uses for one canonical
// field. A source that never exports the field has no entry.
type Mapping map[SourceSystem]string

// Entry is one row of the registry.
type Entry struct {
	Field    CanonicalField `json:"field" yaml:"field"`
	Columns  Mapping        `json:"columns" yaml:"columns"`
	Priority []SourceSystem `json:"priority" yaml:"priority"`
}

// Registry maps canonical fields to per-source columns and source priority.
// A Registry is immutable once constructed.
type Registry struct {
	columns    map[CanonicalField]Mapping
	priorities map[CanonicalField][]SourceSystem
}

// New builds a registry and checks it is exhaustive: every canonical field
// needs a column mapping and a non-empty priority list of distinct known
// sources, and every known source must export the business key.
func New(columns map[CanonicalField]Mapping, priorities map[CanonicalField][]SourceSystem) (*Registry, error) {
	r := &Registry{
		columns:    make(map[CanonicalField]Mapping, len(canonicalFields)),
		priorities: make(map[CanonicalField][]SourceSystem, len(canonicalFields)),
	}

	for field := range columns {
		if !field.IsValid() {
			return nil, errors.NewValidationError("columns", field, fmt.Sprintf("unknown canonical field %q", field))
		}
	}
	for field := range priorities {
		if !field.IsValid() {
			return nil, errors.NewValidationError("priority", field, fmt.Sprintf("unknown canonical field %q", field))
		}
	}

	for _, field := range canonicalFields {
		mapping, ok := columns[field]
		if !ok {
			return nil, errors.NewValidationError("columns", field, fmt.Sprintf("no column mapping for %s", field))
		}
		copied := make(Mapping, len(mapping))
		for src, col := range mapping {
			if !src.IsKnown() {
				return nil, errors.NewValidationError("columns", src, fmt.Sprintf("%s maps unknown source %q", field, src))
			}
			if col != "" {
				copied[src] = col
			}
		}
		if len(copied) == 0 {
			return nil, errors.NewValidationError("columns", field, fmt.Sprintf("%s is not exported by any source", field))
		}
		r.columns[field] = copied

		order := priorities[field]
		if len(order) == 0 {
			return nil, errors.NewValidationError("priority", field, fmt.Sprintf("%s has no source priority", field))
		}
		seen := make(map[SourceSystem]bool, len(order))
		for _, src := range order {
			if !src.IsKnown() {
				return nil, errors.NewValidationError("priority", src, fmt.Sprintf("%s priority names unknown source %q", field, src))
			}
			if seen[src] {
				return nil, errors.NewValidationError("priority", src, fmt.Sprintf("%s priority lists %s twice", field, src))
			}
			seen[src] = true
		}
		r.priorities[field] = append([]SourceSystem(nil), order...)
	}

	for _, src := range KnownSources() {
		if r.columns[BusinessKey][src] == "" {
			return nil, errors.NewValidationError("columns", src, fmt.Sprintf("%s does not export the business key %s", src, BusinessKey))
		}
	}

	return r, nil
}

// Column returns the column name src uses for field.
func (r *Registry) Column(field CanonicalField, src SourceSystem) (string, bool) {
	col, ok := r.columns[field][src]
	return col, ok
}

// Priority returns the ordered source preference for field, most preferred first.
func (r *Registry) Priority(field CanonicalField) []SourceSystem {
	return append([]SourceSystem(nil), r.priorities[field]...)
}

// FieldsFor returns the canonical fields src exports, in display order.
func (r *Registry) FieldsFor(src SourceSystem) []CanonicalField {
	var fields []CanonicalField
	for _, field := range canonicalFields {
		if _, ok := r.columns[field][src]; ok {
			fields = append(fields, field)
		}
	}
	return fields
}

// Entries returns a copy of every registry row in display order.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(canonicalFields))
	for _, field := range canonicalFields {
		cols := make(Mapping, len(r.columns[field]))
		for src, col := range r.columns[field] {
			cols[src] = col
		}
		entries = append(entries, Entry{
			Field:    field,
			Columns:  cols,
			Priority: r.Priority(field),
		})
	}
	return entries
}

// GramsSource returns the source system whose weights are authored in grams.
func (r *Registry) GramsSource() SourceSystem {
	return SourceShopify
}
