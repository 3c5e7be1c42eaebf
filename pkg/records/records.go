// Package records defines the product records that flow through the
// reconciliation pipeline: one SourceRecord per exported row and one
// MergedRecord per business key.
package records

import (
	"math"

	"github.com/agentstation/skumerge/pkg/schema"
)

// SourceRecord is one raw row of one file, translated into canonical fields.
// Only fields the source exports with a non-empty value are present.
type SourceRecord struct {
	Source schema.SourceSystem              `json:"source" yaml:"source"`
	File   string                           `json:"file" yaml:"file"`
	Row    int                              `json:"row" yaml:"row"` // 1-based data row, header excluded
	Values map[schema.CanonicalField]string `json:"values" yaml:"values"`
}

// Get returns the value for field and whether it is present.
func (r *SourceRecord) Get(field schema.CanonicalField) (string, bool) {
	v, ok := r.Values[field]
	return v, ok
}

// SKU returns the record's business key, or "" if it has none.
func (r *SourceRecord) SKU() string {
	return r.Values[schema.BusinessKey]
}

// FieldValue is a resolved value plus the source that supplied it.
type FieldValue struct {
	Value  string              `json:"value" yaml:"value"`
	Source schema.SourceSystem `json:"source" yaml:"source"`
}

// MergedRecord is one output candidate product.
type MergedRecord struct {
	SKU          string                               `json:"sku" yaml:"sku"`
	Fields       map[schema.CanonicalField]FieldValue `json:"fields" yaml:"fields"`
	Contributors []*SourceRecord                      `json:"-" yaml:"-"`
	Sources      []schema.SourceSystem                `json:"sources" yaml:"sources"`
}

// NewMergedRecord creates an empty merged record for sku built from contributors.
// Sources is derived from contributors in first-seen order.
func NewMergedRecord(sku string, contributors []*SourceRecord) *MergedRecord {
	m := &MergedRecord{
		SKU:          sku,
		Fields:       make(map[schema.CanonicalField]FieldValue),
		Contributors: contributors,
	}
	seen := make(map[schema.SourceSystem]bool)
	for _, c := range contributors {
		if !seen[c.Source] {
			seen[c.Source] = true
			m.Sources = append(m.Sources, c.Source)
		}
	}
	return m
}

// IsSingleContributor reports whether the record came from exactly one row.
// Such records can never carry a field conflict.
func (m *MergedRecord) IsSingleContributor() bool {
	return len(m.Contributors) < 2
}

// HasSource reports whether src contributed to the record.
func (m *MergedRecord) HasSource(src schema.SourceSystem) bool {
	for _, s := range m.Sources {
		if s == src {
			return true
		}
	}
	return false
}

// Get returns the resolved value of field and whether it is present.
func (m *MergedRecord) Get(field schema.CanonicalField) (FieldValue, bool) {
	v, ok := m.Fields[field]
	return v, ok
}

// Value returns the resolved value of field, or "".
func (m *MergedRecord) Value(field schema.CanonicalField) string {
	return m.Fields[field].Value
}

// Set stores a resolved value with its provenance. An empty value removes the field.
func (m *MergedRecord) Set(field schema.CanonicalField, value string, src schema.SourceSystem) {
	if value == "" {
		delete(m.Fields, field)
		return
	}
	m.Fields[field] = FieldValue{Value: value, Source: src}
}

// Completeness is the share of canonical fields present, as a percentage.
func (m *MergedRecord) Completeness() float64 {
	all := schema.Fields()
	if len(all) == 0 {
		return 0
	}
	filled := 0
	for _, f := range all {
		if v, ok := m.Fields[f]; ok && v.Value != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(all)) * 100
}

// Clone returns a deep copy of the field values. Contributors are shared.
func (m *MergedRecord) Clone() *MergedRecord {
	c := &MergedRecord{
		SKU:          m.SKU,
		Fields:       make(map[schema.CanonicalField]FieldValue, len(m.Fields)),
		Contributors: m.Contributors,
		Sources:      append([]schema.SourceSystem(nil), m.Sources...),
	}
	for k, v := range m.Fields {
		c.Fields[k] = v
	}
	return c
}

// AverageCompleteness returns the mean completeness across records, rounded.
func AverageCompleteness(recs []*MergedRecord) int {
	if len(recs) == 0 {
		return 0
	}
	var total float64
	for _, r := range recs {
		total += r.Completeness()
	}
	return int(math.Round(total / float64(len(recs))))
}
