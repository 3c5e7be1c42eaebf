package schema

import (
	"github.com/agentstation/skumerge/pkg/errors"
)

// Template is a named, ordered list of Odoo import columns.
type Template struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Fields      []string `json:"fields" yaml:"fields"`
}

// Template names.
const (
	TemplateMinimal   = "minimal"
	TemplateStandard  = "standard"
	TemplateEcommerce = "ecommerce"
)

var minimalFields = []string{
	"name", "default_code", "type", "categ_id", "list_price", "standard_price",
	"barcode", "qty_available", "uom_id", "description_sale",
}

var standardExtras = []string{
	"weight", "active", "sale_ok", "purchase_ok", "tracking", "image_1920",
	"hs_code", "country_of_origin",
}

var ecommerceFields = []string{
	"name", "default_code", "type", "categ_id", "list_price", "standard_price",
	"compare_list_price", "barcode", "qty_available", "uom_id", "description_sale",
	"description_ecommerce", "weight", "volume", "active", "sale_ok", "purchase_ok",
	"tracking", "image_1920", "is_published", "website_meta_title",
	"website_meta_description", "hs_code", "country_of_origin", "public_categ_ids",
	"website_ribbon_id",
}

// Templates returns the built-in output templates.
func Templates() []Template {
	standard := append(append([]string(nil), minimalFields...), standardExtras...)
	return []Template{
		{Name: TemplateMinimal, Description: "Essential fields only", Fields: append([]string(nil), minimalFields...)},
		{Name: TemplateStandard, Description: "Common inventory fields", Fields: standard},
		{Name: TemplateEcommerce, Description: "Full website and ecommerce fields", Fields: append([]string(nil), ecommerceFields...)},
	}
}

// LookupTemplate returns the template with the given name.
func LookupTemplate(name string) (Template, error) {
	for _, t := range Templates() {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, errors.NewNotFoundError("template", name)
}

// DefaultMapping returns the output column to canonical field mapping used
// when the operator has not remapped a column. Columns absent from the map
// are filled by conversion defaults only.
func DefaultMapping() map[string]CanonicalField {
	return map[string]CanonicalField{
		"name":                     FieldName,
		"default_code":             FieldSKU,
		"barcode":                  FieldBarcode,
		"list_price":               FieldListPrice,
		"standard_price":           FieldStandardPrice,
		"description_sale":         FieldDescription,
		"qty_available":            FieldQtyAvailable,
		"weight":                   FieldWeight,
		"categ_id":                 FieldCategory,
		"image_1920":               FieldImageURL,
		"hs_code":                  FieldHSCode,
		"country_of_origin":        FieldCountryOfOrigin,
		"website_meta_title":       FieldSEOTitle,
		"website_meta_description": FieldSEODescription,
	}
}

// IsOutputField reports whether name is a column of any built-in template.
func IsOutputField(name string) bool {
	for _, t := range Templates() {
		for _, f := range t.Fields {
			if f == name {
				return true
			}
		}
	}
	return false
}
