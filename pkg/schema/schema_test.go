package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/schema"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    schema.SourceSystem
	}{
		{
			name:    "shopify",
			headers: []string{"Handle", "Title", "Variant SKU", "Variant Price"},
			want:    schema.SourceShopify,
		},
		{
			name:    "shopify needs both handle and variant sku",
			headers: []string{"Handle", "Title"},
			want:    schema.SourceUnknown,
		},
		{
			name:    "cin7 by product code",
			headers: []string{"ProductCode", "Name"},
			want:    schema.SourceCin7,
		},
		{
			name:    "cin7 by average cost",
			headers: []string{"Code", "AverageCost"},
			want:    schema.SourceCin7,
		},
		{
			name:    "zoho by item id",
			headers: []string{"Item ID", "SKU"},
			want:    schema.SourceZoho,
		},
		{
			name:    "zoho by stock on hand and item name",
			headers: []string{"Item Name", "SKU", "Stock On Hand"},
			want:    schema.SourceZoho,
		},
		{
			name:    "zoho stock alone is not enough",
			headers: []string{"SKU", "Stock On Hand"},
			want:    schema.SourceUnknown,
		},
		{
			name:    "case insensitive",
			headers: []string{"HANDLE", "variant sku"},
			want:    schema.SourceShopify,
		},
		{
			name:    "empty",
			headers: nil,
			want:    schema.SourceUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, schema.Detect(tc.headers))
		})
	}
}

func TestParseSourceSystem(t *testing.T) {
	src, err := schema.ParseSourceSystem(" Cin7 ")
	require.NoError(t, err)
	assert.Equal(t, schema.SourceCin7, src)

	_, err = schema.ParseSourceSystem("unknown")
	assert.True(t, errors.IsValidationError(err))
}

func TestParseField(t *testing.T) {
	f, err := schema.ParseField("LIST_PRICE")
	require.NoError(t, err)
	assert.Equal(t, schema.FieldListPrice, f)

	_, err = schema.ParseField("volume")
	assert.True(t, errors.IsValidationError(err))
}

func TestFieldOrder(t *testing.T) {
	fields := schema.Fields()
	require.Len(t, fields, 14)
	assert.Equal(t, schema.FieldSKU, fields[0])
	assert.True(t, schema.FieldSKU.Less(schema.FieldWeight))
	assert.False(t, schema.FieldSEODescription.Less(schema.FieldName))
}

func TestDefaultRegistry(t *testing.T) {
	r := schema.Default()

	t.Run("columns", func(t *testing.T) {
		col, ok := r.Column(schema.FieldSKU, schema.SourceShopify)
		assert.True(t, ok)
		assert.Equal(t, "Variant SKU", col)

		col, ok = r.Column(schema.FieldQtyAvailable, schema.SourceZoho)
		assert.True(t, ok)
		assert.Equal(t, "Stock On Hand", col)

		_, ok = r.Column(schema.FieldImageURL, schema.SourceCin7)
		assert.False(t, ok)
	})

	t.Run("priorities", func(t *testing.T) {
		assert.Equal(t, []schema.SourceSystem{schema.SourceShopify, schema.SourceCin7, schema.SourceZoho}, r.Priority(schema.FieldListPrice))
		assert.Equal(t, []schema.SourceSystem{schema.SourceCin7, schema.SourceZoho, schema.SourceShopify}, r.Priority(schema.FieldStandardPrice))
		assert.Equal(t, []schema.SourceSystem{schema.SourceZoho, schema.SourceCin7, schema.SourceShopify}, r.Priority(schema.FieldQtyAvailable))
		assert.Equal(t, []schema.SourceSystem{schema.SourceCin7, schema.SourceShopify, schema.SourceZoho}, r.Priority(schema.FieldWeight))
	})

	t.Run("priority is a copy", func(t *testing.T) {
		p := r.Priority(schema.FieldName)
		p[0] = schema.SourceZoho
		assert.Equal(t, schema.SourceCin7, r.Priority(schema.FieldName)[0])
	})

	t.Run("fields for source", func(t *testing.T) {
		assert.Equal(t, []schema.CanonicalField{
			schema.FieldSKU, schema.FieldName, schema.FieldDescription, schema.FieldListPrice,
			schema.FieldStandardPrice, schema.FieldQtyAvailable, schema.FieldWeight,
		}, r.FieldsFor(schema.SourceZoho))
		assert.Empty(t, r.FieldsFor(schema.SourceUnknown))
	})

	t.Run("entries cover every field", func(t *testing.T) {
		assert.Len(t, r.Entries(), len(schema.Fields()))
	})

	assert.Equal(t, schema.SourceShopify, r.GramsSource())
}

func TestNewRejectsIncompleteRegistry(t *testing.T) {
	full := func() (map[schema.CanonicalField]schema.Mapping, map[schema.CanonicalField][]schema.SourceSystem) {
		cols := map[schema.CanonicalField]schema.Mapping{}
		prios := map[schema.CanonicalField][]schema.SourceSystem{}
		for _, e := range schema.Default().Entries() {
			cols[e.Field] = e.Columns
			prios[e.Field] = e.Priority
		}
		return cols, prios
	}

	tests := []struct {
		name   string
		mutate func(map[schema.CanonicalField]schema.Mapping, map[schema.CanonicalField][]schema.SourceSystem)
	}{
		{
			name: "missing column mapping",
			mutate: func(c map[schema.CanonicalField]schema.Mapping, _ map[schema.CanonicalField][]schema.SourceSystem) {
				delete(c, schema.FieldBarcode)
			},
		},
		{
			name: "empty priority",
			mutate: func(_ map[schema.CanonicalField]schema.Mapping, p map[schema.CanonicalField][]schema.SourceSystem) {
				p[schema.FieldWeight] = nil
			},
		},
		{
			name: "duplicate priority",
			mutate: func(_ map[schema.CanonicalField]schema.Mapping, p map[schema.CanonicalField][]schema.SourceSystem) {
				p[schema.FieldWeight] = []schema.SourceSystem{schema.SourceCin7, schema.SourceCin7}
			},
		},
		{
			name: "unknown source in priority",
			mutate: func(_ map[schema.CanonicalField]schema.Mapping, p map[schema.CanonicalField][]schema.SourceSystem) {
				p[schema.FieldWeight] = []schema.SourceSystem{schema.SourceUnknown}
			},
		},
		{
			name: "unknown field",
			mutate: func(c map[schema.CanonicalField]schema.Mapping, _ map[schema.CanonicalField][]schema.SourceSystem) {
				c["volume"] = schema.Mapping{schema.SourceShopify: "Volume"}
			},
		},
		{
			name: "business key missing for a source",
			mutate: func(c map[schema.CanonicalField]schema.Mapping, _ map[schema.CanonicalField][]schema.SourceSystem) {
				c[schema.FieldSKU] = schema.Mapping{schema.SourceShopify: "Variant SKU", schema.SourceCin7: "ProductCode"}
			},
		},
		{
			name: "field exported by nobody",
			mutate: func(c map[schema.CanonicalField]schema.Mapping, _ map[schema.CanonicalField][]schema.SourceSystem) {
				c[schema.FieldHSCode] = schema.Mapping{}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cols, prios := full()
			tc.mutate(cols, prios)
			_, err := schema.New(cols, prios)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestTemplates(t *testing.T) {
	minimal, err := schema.LookupTemplate(schema.TemplateMinimal)
	require.NoError(t, err)
	assert.Len(t, minimal.Fields, 10)

	standard, err := schema.LookupTemplate(schema.TemplateStandard)
	require.NoError(t, err)
	assert.Len(t, standard.Fields, 18)
	assert.Equal(t, minimal.Fields, standard.Fields[:10])

	ecommerce, err := schema.LookupTemplate(schema.TemplateEcommerce)
	require.NoError(t, err)
	assert.Len(t, ecommerce.Fields, 26)
	assert.Equal(t, "website_ribbon_id", ecommerce.Fields[25])

	_, err = schema.LookupTemplate("deluxe")
	assert.True(t, errors.IsNotFound(err))
}

func TestDefaultMapping(t *testing.T) {
	m := schema.DefaultMapping()
	assert.Equal(t, schema.FieldSKU, m["default_code"])
	assert.Equal(t, schema.FieldDescription, m["description_sale"])
	_, ok := m["uom_id"]
	assert.False(t, ok)
}

func TestOverrides(t *testing.T) {
	doc := []byte(`
fields:
  list_price:
    columns:
      cin7: PriceTier2
      zoho: ""
    priority: [cin7, shopify]
`)
	o, err := schema.ParseOverrides(doc)
	require.NoError(t, err)

	base := schema.Default()
	r, err := base.WithOverrides(o)
	require.NoError(t, err)

	col, ok := r.Column(schema.FieldListPrice, schema.SourceCin7)
	assert.True(t, ok)
	assert.Equal(t, "PriceTier2", col)

	_, ok = r.Column(schema.FieldListPrice, schema.SourceZoho)
	assert.False(t, ok)
	assert.Equal(t, []schema.SourceSystem{schema.SourceCin7, schema.SourceShopify}, r.Priority(schema.FieldListPrice))

	// the base registry is untouched
	col, _ = base.Column(schema.FieldListPrice, schema.SourceCin7)
	assert.Equal(t, "PriceTier1", col)
	_, ok = base.Column(schema.FieldListPrice, schema.SourceZoho)
	assert.True(t, ok)
}

func TestOverridesRejectUnknownNames(t *testing.T) {
	r := schema.Default()

	_, err := r.WithOverrides(&schema.Overrides{Fields: map[string]schema.FieldOverride{"volume": {}}})
	assert.True(t, errors.IsValidationError(err))

	_, err = r.WithOverrides(&schema.Overrides{Fields: map[string]schema.FieldOverride{
		"name": {Priority: []string{"amazon"}},
	}})
	assert.True(t, errors.IsValidationError(err))
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fields:\n  weight:\n    priority: [zoho, cin7, shopify]\n"), 0o644))
	o, err := schema.LoadOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"zoho", "cin7", "shopify"}, o.Fields["weight"].Priority)

	_, err = schema.LoadOverrides(filepath.Join(dir, "missing.yaml"))
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("fields: [unterminated"), 0o644))
	_, err = schema.LoadOverrides(bad)
	assert.True(t, errors.IsParse(err))
}

func TestIsOutputField(t *testing.T) {
	assert.True(t, schema.IsOutputField("website_ribbon_id"))
	assert.True(t, schema.IsOutputField("uom_id"))
	assert.False(t, schema.IsOutputField("sku"))
}
