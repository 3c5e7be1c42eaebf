package schema

import (
	"strings"

	"github.com/agentstation/skumerge/pkg/errors"
)

// CanonicalField is a named semantic product attribute, independent of any
// source's own column naming.
type CanonicalField string

// Canonical fields in display order.
const (
	FieldSKU             CanonicalField = "sku"
	FieldName            CanonicalField = "name"
	FieldDescription     CanonicalField = "description"
	FieldListPrice       CanonicalField = "list_price"
	FieldStandardPrice   CanonicalField = "standard_price"
	FieldQtyAvailable    CanonicalField = "qty_available"
	FieldBarcode         CanonicalField = "barcode"
	FieldWeight          CanonicalField = "weight"
	FieldCategory        CanonicalField = "category"
	FieldImageURL        CanonicalField = "image_url"
	FieldHSCode          CanonicalField = "hs_code"
	FieldCountryOfOrigin CanonicalField = "country_of_origin"
	FieldSEOTitle        CanonicalField = "seo_title"
	FieldSEODescription  CanonicalField = "seo_description"
)

// BusinessKey is the field used to match records across sources.
const BusinessKey = FieldSKU

var canonicalFields = []CanonicalField{
	FieldSKU,
	FieldName,
	FieldDescription,
	FieldListPrice,
	FieldStandardPrice,
	FieldQtyAvailable,
	FieldBarcode,
	FieldWeight,
	FieldCategory,
	FieldImageURL,
	FieldHSCode,
	FieldCountryOfOrigin,
	FieldSEOTitle,
	FieldSEODescription,
}

// Fields returns every canonical field in display order.
func Fields() []CanonicalField {
	return append([]CanonicalField(nil), canonicalFields...)
}

// String returns the string representation of a canonical field.
func (f CanonicalField) String() string {
	return string(f)
}

// IsValid reports whether f is a canonical field.
func (f CanonicalField) IsValid() bool {
	return f.index() >= 0
}

// Less orders fields by display order.
func (f CanonicalField) Less(other CanonicalField) bool {
	return f.index() < other.index()
}

func (f CanonicalField) index() int {
	for i, c := range canonicalFields {
		if c == f {
			return i
		}
	}
	return -1
}

// ParseField converts a name (case-insensitive) into a CanonicalField.
func ParseField(name string) (CanonicalField, error) {
	f := CanonicalField(strings.ToLower(strings.TrimSpace(name)))
	if !f.IsValid() {
		return "", errors.NewValidationError("field", name, "unknown canonical field")
	}
	return f, nil
}
