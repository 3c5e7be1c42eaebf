package records_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/agentstation/skumerge/pkg/records"
	"github.com/agentstation/skumerge/pkg/schema"
)

func rec(src schema.SourceSystem, values map[schema.CanonicalField]string) *records.SourceRecord {
	return &records.SourceRecord{Source: src, File: string(src) + ".csv", Row: 1, Values: values}
}

func TestNewMergedRecordSources(t *testing.T) {
	a := rec(schema.SourceShopify, map[schema.CanonicalField]string{schema.FieldSKU: "X1"})
	b := rec(schema.SourceCin7, map[schema.CanonicalField]string{schema.FieldSKU: "X1"})
	a2 := rec(schema.SourceShopify, map[schema.CanonicalField]string{schema.FieldSKU: "X1"})

	m := records.NewMergedRecord("X1", []*records.SourceRecord{a, b, a2})
	assert.Equal(t, []schema.SourceSystem{schema.SourceShopify, schema.SourceCin7}, m.Sources)
	assert.False(t, m.IsSingleContributor())
	assert.True(t, m.HasSource(schema.SourceCin7))
	assert.False(t, m.HasSource(schema.SourceZoho))

	single := records.NewMergedRecord("X2", []*records.SourceRecord{a})
	assert.True(t, single.IsSingleContributor())
}

func TestMergedRecordSet(t *testing.T) {
	m := records.NewMergedRecord("X1", nil)

	m.Set(schema.FieldName, "Widget", schema.SourceCin7)
	v, ok := m.Get(schema.FieldName)
	assert.True(t, ok)
	assert.Equal(t, records.FieldValue{Value: "Widget", Source: schema.SourceCin7}, v)

	m.Set(schema.FieldName, "", schema.SourceZoho)
	_, ok = m.Get(schema.FieldName)
	assert.False(t, ok)
	assert.Equal(t, "", m.Value(schema.FieldName))
}

func TestCompleteness(t *testing.T) {
	m := records.NewMergedRecord("X1", nil)
	m.Set(schema.FieldSKU, "X1", schema.SourceCin7)
	assert.InDelta(t, 100.0/14.0, m.Completeness(), 0.0001)

	full := records.NewMergedRecord("X2", nil)
	for _, f := range schema.Fields() {
		full.Set(f, "v", schema.SourceCin7)
	}
	assert.InDelta(t, 100.0, full.Completeness(), 0.0001)

	// (7.14 + 100) / 2 = 53.57
	assert.Equal(t, 54, records.AverageCompleteness([]*records.MergedRecord{m, full}))
	assert.Equal(t, 0, records.AverageCompleteness(nil))
}

func TestClone(t *testing.T) {
	m := records.NewMergedRecord("X1", []*records.SourceRecord{rec(schema.SourceZoho, nil)})
	m.Set(schema.FieldListPrice, "9.99", schema.SourceZoho)

	c := m.Clone()
	if diff := cmp.Diff(m, c); diff != "" {
		t.Errorf("clone differs (-orig +clone):\n%s", diff)
	}

	c.Set(schema.FieldListPrice, "1.00", schema.SourceShopify)
	assert.Equal(t, "9.99", m.Value(schema.FieldListPrice))
}
