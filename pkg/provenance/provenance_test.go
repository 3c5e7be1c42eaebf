package provenance_test

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skumerge/pkg/provenance"
	"github.com/agentstation/skumerge/pkg/schema"
)

func TestTracker(t *testing.T) {
	tr := provenance.NewTracker(true)

	tr.Track("X1", schema.FieldListPrice, provenance.Provenance{
		Source: schema.SourceShopify, Value: "19.99", Reason: provenance.ReasonPriority,
	})
	tr.Track("X1", schema.FieldListPrice, provenance.Provenance{
		Source: schema.SourceCin7, Value: "18.00", Reason: provenance.ReasonOperator, PreviousValue: "19.99",
	})
	tr.Track("X1", schema.FieldName, provenance.Provenance{
		Source: schema.SourceCin7, Value: "Widget", Reason: provenance.ReasonPriority,
	})

	history := tr.FindByField("X1", schema.FieldListPrice)
	require.Len(t, history, 2)
	assert.Equal(t, schema.FieldListPrice, history[0].Field)
	assert.False(t, history[0].Timestamp.IsZero())

	cur, ok := tr.Current("X1", schema.FieldListPrice)
	require.True(t, ok)
	assert.Equal(t, "18.00", cur.Value)
	assert.Equal(t, "19.99", cur.PreviousValue)

	_, ok = tr.Current("X2", schema.FieldName)
	assert.False(t, ok)

	byRecord := tr.FindByRecord("X1")
	assert.Len(t, byRecord, 2)
	assert.Len(t, byRecord[schema.FieldName], 1)

	m := tr.Map()
	m["X1:name"] = nil
	assert.Len(t, tr.FindByField("X1", schema.FieldName), 1, "Map returns a copy")

	tr.Clear()
	assert.Empty(t, tr.Map())
}

func TestDisabledTracker(t *testing.T) {
	tr := provenance.NewTracker(false)
	tr.Track("X1", schema.FieldName, provenance.Provenance{Source: schema.SourceCin7, Value: "Widget"})

	assert.Nil(t, tr.FindByField("X1", schema.FieldName))
	assert.Nil(t, tr.FindByRecord("X1"))
	assert.Nil(t, tr.Map())
}

func TestSplitKey(t *testing.T) {
	sku, field := provenance.SplitKey("AB:12:list_price")
	assert.Equal(t, "AB:12", sku)
	assert.Equal(t, schema.FieldListPrice, field)

	sku, field = provenance.SplitKey("plain")
	assert.Equal(t, "plain", sku)
	assert.Equal(t, schema.CanonicalField(""), field)
}

func TestGenerateReport(t *testing.T) {
	at := utc.New(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	tr := provenance.NewTracker(true)
	tr.Track("B2", schema.FieldName, provenance.Provenance{Source: schema.SourceZoho, Value: "Beta", Reason: provenance.ReasonSingleSource, Timestamp: at})
	tr.Track("A1", schema.FieldWeight, provenance.Provenance{Source: schema.SourceCin7, Value: "1.2", Reason: provenance.ReasonPriority, Timestamp: at})
	tr.Track("A1", schema.FieldName, provenance.Provenance{Source: schema.SourceCin7, Value: "Alpha", Reason: provenance.ReasonPriority, Timestamp: at})
	tr.Track("A1", schema.FieldName, provenance.Provenance{Source: schema.SourceShopify, Value: "Alpha Pro", Reason: provenance.ReasonOperator, Timestamp: at})

	report := provenance.GenerateReport(tr.Map())
	require.Len(t, report.Records, 2)
	assert.Equal(t, "A1", report.Records[0].SKU)

	fields := report.Records[0].Fields
	require.Len(t, fields, 2)
	assert.Equal(t, schema.FieldName, fields[0].Field)
	assert.True(t, fields[0].Overridden())
	assert.Equal(t, "Alpha Pro", fields[0].Current.Value)
	assert.False(t, fields[1].Overridden())

	text := report.String()
	assert.Contains(t, text, "SKU: A1")
	assert.Contains(t, text, "name: Alpha Pro (from Shopify, operator)")
	assert.Contains(t, text, "was Alpha from Cin7 (priority) at 03:04:05")

	filtered := provenance.GenerateReport(tr.Map(), "B2")
	require.Len(t, filtered.Records, 1)
	assert.Equal(t, "B2", filtered.Records[0].SKU)
}
