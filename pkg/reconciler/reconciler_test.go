package reconciler_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/logging"
	"github.com/agentstation/skumerge/pkg/provenance"
	"github.com/agentstation/skumerge/pkg/reconciler"
	"github.com/agentstation/skumerge/pkg/records"
	"github.com/agentstation/skumerge/pkg/schema"
)

type fields = map[schema.CanonicalField]string

func rec(src schema.SourceSystem, row int, values fields) *records.SourceRecord {
	return &records.SourceRecord{Source: src, File: string(src) + ".csv", Row: row, Values: values}
}

func merge(t *testing.T, recs []*records.SourceRecord, opts ...reconciler.Option) *reconciler.Result {
	t.Helper()
	agg, err := reconciler.New(append([]reconciler.Option{reconciler.WithLogger(logging.NewNopLogger())}, opts...)...)
	require.NoError(t, err)
	result, err := agg.Merge(context.Background(), recs)
	require.NoError(t, err)
	return result
}

func TestMergeTwoSources(t *testing.T) {
	shopify := rec(schema.SourceShopify, 1, fields{
		schema.FieldSKU:       "X1",
		schema.FieldName:      "Widget",
		schema.FieldListPrice: "19.99",
		schema.FieldWeight:    "500",
	})
	cin7 := rec(schema.SourceCin7, 1, fields{
		schema.FieldSKU:       "X1",
		schema.FieldName:      "Widget Pro",
		schema.FieldListPrice: "18.00",
	})

	result := merge(t, []*records.SourceRecord{shopify, cin7})
	require.Len(t, result.Records, 1)
	m := result.Records[0]

	assert.Equal(t, "X1", m.SKU)
	assert.Equal(t, []schema.SourceSystem{schema.SourceShopify, schema.SourceCin7}, m.Sources)
	assert.Equal(t, records.FieldValue{Value: "19.99", Source: schema.SourceShopify}, m.Fields[schema.FieldListPrice])
	assert.Equal(t, records.FieldValue{Value: "Widget Pro", Source: schema.SourceCin7}, m.Fields[schema.FieldName])
	assert.Equal(t, records.FieldValue{Value: "500", Source: schema.SourceShopify}, m.Fields[schema.FieldWeight])
	_, ok := m.Get(schema.FieldBarcode)
	assert.False(t, ok)

	cur, ok := result.Provenance.Current("X1", schema.FieldListPrice)
	require.True(t, ok)
	assert.Equal(t, provenance.ReasonPriority, cur.Reason)

	assert.Equal(t, reconciler.Stats{Total: 1, Matched: 1, Unique: 0, Completeness: 29}, result.Stats)
	assert.Same(t, m, result.Record("X1"))
	assert.Nil(t, result.Record("nope"))
}

func TestMergeSingleFile(t *testing.T) {
	var recs []*records.SourceRecord
	for i := 1; i <= 5; i++ {
		recs = append(recs, rec(schema.SourceCin7, i, fields{
			schema.FieldSKU:  fmt.Sprintf("SKU-%d", i),
			schema.FieldName: fmt.Sprintf("Item %d", i),
		}))
	}

	result := merge(t, recs)
	require.Len(t, result.Records, 5)
	for i, m := range result.Records {
		assert.Equal(t, fmt.Sprintf("SKU-%d", i+1), m.SKU, "first-seen order")
		assert.True(t, m.IsSingleContributor())
		assert.Equal(t, []schema.SourceSystem{schema.SourceCin7}, m.Sources)

		cur, ok := result.Provenance.Current(m.SKU, schema.FieldName)
		require.True(t, ok)
		assert.Equal(t, provenance.ReasonSingleSource, cur.Reason)
	}
	assert.Equal(t, 5, result.Stats.Unique)
	assert.Equal(t, 0, result.Stats.Matched)
}

func TestMergeSkipsMissingSKU(t *testing.T) {
	recs := []*records.SourceRecord{
		rec(schema.SourceZoho, 1, fields{schema.FieldName: "Nameless"}),
		rec(schema.SourceZoho, 2, fields{schema.FieldSKU: "Z1"}),
	}

	result := merge(t, recs)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 1, result.Skipped[0].Row)
	assert.Equal(t, 1, result.Stats.Skipped)
	assert.Equal(t, 1, result.Stats.Total)
}

func TestMergeTrimsKeys(t *testing.T) {
	recs := []*records.SourceRecord{
		rec(schema.SourceShopify, 1, fields{schema.FieldSKU: "X1 "}),
		rec(schema.SourceCin7, 1, fields{schema.FieldSKU: " X1"}),
	}
	result := merge(t, recs)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "X1", result.Records[0].Value(schema.FieldSKU))
}

func TestMergeSameSourceTwice(t *testing.T) {
	recs := []*records.SourceRecord{
		rec(schema.SourceZoho, 1, fields{schema.FieldSKU: "Z1", schema.FieldName: "First"}),
		rec(schema.SourceZoho, 2, fields{schema.FieldSKU: "Z1", schema.FieldName: "Second"}),
	}
	result := merge(t, recs)
	require.Len(t, result.Records, 1)

	m := result.Records[0]
	assert.False(t, m.IsSingleContributor())
	assert.Equal(t, []schema.SourceSystem{schema.SourceZoho}, m.Sources)
	assert.Equal(t, "First", m.Value(schema.FieldName))
	assert.Equal(t, 1, result.Stats.Matched)
}

func TestPriorityStrategyFallback(t *testing.T) {
	o, err := schema.ParseOverrides([]byte("fields:\n  list_price:\n    priority: [cin7]\n"))
	require.NoError(t, err)
	registry, err := schema.Default().WithOverrides(o)
	require.NoError(t, err)

	recs := []*records.SourceRecord{
		rec(schema.SourceZoho, 1, fields{schema.FieldSKU: "X1", schema.FieldListPrice: "7.00"}),
		rec(schema.SourceShopify, 1, fields{schema.FieldSKU: "X1", schema.FieldListPrice: "9.00"}),
		rec(schema.SourceCin7, 1, fields{schema.FieldSKU: "X1"}),
	}

	result := merge(t, recs, reconciler.WithRegistry(registry))
	m := result.Records[0]
	assert.Equal(t, records.FieldValue{Value: "7.00", Source: schema.SourceZoho}, m.Fields[schema.FieldListPrice])

	cur, ok := result.Provenance.Current("X1", schema.FieldListPrice)
	require.True(t, ok)
	assert.Equal(t, provenance.ReasonFallback, cur.Reason)
	assert.Equal(t, schema.SourceZoho, cur.Source)
}

func TestSourceOrderStrategy(t *testing.T) {
	s := reconciler.NewSourceOrderStrategy([]schema.SourceSystem{schema.SourceZoho, schema.SourceCin7})
	assert.Equal(t, reconciler.StrategyTypeSourceOrder, s.Type())
	assert.Equal(t, "Source Order", s.Type().Name())

	contributors := []*records.SourceRecord{
		rec(schema.SourceCin7, 1, fields{schema.FieldName: "Cin7 Name"}),
		rec(schema.SourceZoho, 1, fields{schema.FieldName: "Zoho Name"}),
	}
	v, src, reason := s.ResolveField(schema.FieldName, contributors)
	assert.Equal(t, "Zoho Name", v)
	assert.Equal(t, schema.SourceZoho, src)
	assert.Equal(t, provenance.ReasonPriority, reason)

	v, _, _ = s.ResolveField(schema.FieldBarcode, contributors)
	assert.Empty(t, v)

	result := merge(t, []*records.SourceRecord{
		rec(schema.SourceCin7, 1, fields{schema.FieldSKU: "A", schema.FieldName: "Cin7 Name"}),
		rec(schema.SourceZoho, 1, fields{schema.FieldSKU: "A", schema.FieldName: "Zoho Name"}),
	}, reconciler.WithStrategy(s))
	assert.Equal(t, "Zoho Name", result.Records[0].Value(schema.FieldName))
	assert.Equal(t, reconciler.StrategyTypeSourceOrder, result.Metadata.Strategy.Type())
}

func TestMergeWithoutProvenance(t *testing.T) {
	result := merge(t, []*records.SourceRecord{
		rec(schema.SourceCin7, 1, fields{schema.FieldSKU: "A"}),
	}, reconciler.WithProvenance(false))
	_, ok := result.Provenance.Current("A", schema.FieldSKU)
	assert.False(t, ok)
}

func TestMergeCanceled(t *testing.T) {
	agg, err := reconciler.New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = agg.Merge(ctx, []*records.SourceRecord{rec(schema.SourceCin7, 1, fields{schema.FieldSKU: "A"})})
	assert.True(t, errors.IsCanceled(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptionValidation(t *testing.T) {
	_, err := reconciler.New(reconciler.WithStrategy(nil))
	assert.True(t, errors.IsValidationError(err))

	_, err = reconciler.New(reconciler.WithRegistry(nil))
	assert.True(t, errors.IsValidationError(err))

	agg, err := reconciler.New()
	require.NoError(t, err)
	assert.Equal(t, reconciler.StrategyTypeFieldPriority, agg.Strategy().Type())
	assert.Equal(t, "Field Priority", agg.Strategy().Type().Name())
}

func TestResultSummary(t *testing.T) {
	result := merge(t, []*records.SourceRecord{
		rec(schema.SourceCin7, 1, fields{schema.FieldSKU: "A", schema.FieldName: "Alpha"}),
	})
	assert.Equal(t, "1 products (0 matched, 1 unique), 0 skipped, 14% complete", result.Summary())
}
