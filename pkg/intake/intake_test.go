package intake_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/intake"
	"github.com/agentstation/skumerge/pkg/schema"
)

const shopifyCSV = "Handle,Title,Variant SKU,Variant Price,Variant Grams\n" +
	"widget,Widget,X1,19.99,500\n" +
	"gadget,Gadget,X2,5.00,\n"

func TestParse(t *testing.T) {
	f, err := intake.Parse("shopify.csv", strings.NewReader(shopifyCSV))
	require.NoError(t, err)

	assert.Equal(t, schema.SourceShopify, f.Source)
	assert.Equal(t, intake.EncodingUTF8, f.Encoding)
	assert.Equal(t, []string{"Handle", "Title", "Variant SKU", "Variant Price", "Variant Grams"}, f.Headers)
	require.Equal(t, 2, f.RowCount())
	assert.Equal(t, 1, f.Rows[0].Number)
	assert.Equal(t, "X1", f.Rows[0].Values["Variant SKU"])
	assert.Equal(t, "", f.Rows[1].Values["Variant Grams"])
	assert.Empty(t, f.Warnings)
}

func TestParseRaggedRows(t *testing.T) {
	data := " ProductCode , Name ,PriceTier1\n" +
		"X1,Widget\n" +
		",,\n" +
		"X2,Gadget,5.00,extra\n"

	f, err := intake.Parse("cin7.csv", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, schema.SourceCin7, f.Source)
	assert.Equal(t, []string{"ProductCode", "Name", "PriceTier1"}, f.Headers)
	require.Equal(t, 2, f.RowCount())

	assert.Equal(t, "", f.Rows[0].Values["PriceTier1"])
	assert.Equal(t, 3, f.Rows[1].Number)
	assert.Equal(t, "5.00", f.Rows[1].Values["PriceTier1"])
	assert.Len(t, f.Rows[1].Values, 3)

	require.Len(t, f.Warnings, 2)
	assert.Contains(t, f.Warnings[0], "padded")
	assert.Contains(t, f.Warnings[1], "truncated")
}

func TestParseEncodings(t *testing.T) {
	t.Run("utf-8 bom", func(t *testing.T) {
		data := "\xEF\xBB\xBFItem ID,Item Name,SKU\n1,Caf\xC3\xA9,Z1\n"
		f, err := intake.Parse("zoho.csv", strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, intake.EncodingUTF8BOM, f.Encoding)
		assert.Equal(t, "Item ID", f.Headers[0])
		assert.Equal(t, schema.SourceZoho, f.Source)
		assert.Equal(t, "Café", f.Rows[0].Values["Item Name"])
	})

	t.Run("utf-16 le", func(t *testing.T) {
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		data, err := enc.String("Item ID,Item Name,SKU\n1,Café,Z1\n")
		require.NoError(t, err)

		f, err := intake.Parse("zoho16.csv", strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, intake.EncodingUTF16, f.Encoding)
		assert.Equal(t, schema.SourceZoho, f.Source)
		assert.Equal(t, "Café", f.Rows[0].Values["Item Name"])
	})

	t.Run("windows-1252", func(t *testing.T) {
		data := "ProductCode,Name\nX1,Caf\xE9\n"
		f, err := intake.Parse("cin7.csv", strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, intake.EncodingWindows1252, f.Encoding)
		assert.Equal(t, "Café", f.Rows[0].Values["Name"])
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "whitespace only", data: "  \n\n"},
		{name: "blank header", data: ",,\nX1,Widget,1\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := intake.Parse("bad.csv", strings.NewReader(tc.data))
			require.Error(t, err)
			assert.True(t, errors.IsParse(err))
			assert.Contains(t, err.Error(), "bad.csv")
		})
	}
}

func TestParseUnknownSource(t *testing.T) {
	f, err := intake.Parse("other.csv", strings.NewReader("Code,Label\nA,B\n"))
	require.NoError(t, err)
	assert.Equal(t, schema.SourceUnknown, f.Source)
	assert.Equal(t, 1, f.RowCount())
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "shopify.csv")
	require.NoError(t, os.WriteFile(good, []byte(shopifyCSV), 0o644))

	inputs := []intake.Input{
		intake.OpenPath(filepath.Join(dir, "missing.csv")),
		intake.OpenPath(good),
		intake.OpenBytes("cin7.csv", []byte("ProductCode,Name\nX1,Widget\n")),
		intake.OpenBytes("empty.csv", nil),
		{Name: "broken", Open: func() (io.ReadCloser, error) { return nil, errors.New("boom") }},
	}

	results := intake.LoadAll(context.Background(), inputs)
	require.Len(t, results, len(inputs))

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, inputs[i].Name, r.Name)
	}

	var ioErr *errors.IOError
	assert.ErrorAs(t, results[0].Err, &ioErr)

	require.NoError(t, results[1].Err)
	assert.Equal(t, schema.SourceShopify, results[1].File.Source)
	assert.Equal(t, 1, results[1].File.Index)

	require.NoError(t, results[2].Err)
	assert.Equal(t, schema.SourceCin7, results[2].File.Source)
	assert.Equal(t, 2, results[2].File.Index)

	assert.True(t, errors.IsParse(results[3].Err))
	assert.EqualError(t, results[4].Err, "boom")
}

func TestLoadAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := intake.LoadAll(ctx, []intake.Input{intake.OpenBytes("a.csv", []byte(shopifyCSV))})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.Nil(t, results[0].File)
}

func TestLoadAllEmpty(t *testing.T) {
	assert.Empty(t, intake.LoadAll(context.Background(), nil))
}
