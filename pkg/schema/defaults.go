package schema

// defaultColumns is the built-in column table for the three known exports.
func defaultColumns() map[CanonicalField]Mapping {
	return map[CanonicalField]Mapping{
		FieldSKU:             {SourceShopify: "Variant SKU", SourceCin7: "ProductCode", SourceZoho: "SKU"},
		FieldName:            {SourceShopify: "Title", SourceCin7: "Name", SourceZoho: "Item Name"},
		FieldDescription:     {SourceShopify: "Body (HTML)", SourceCin7: "Description", SourceZoho: "Sales Description"},
		FieldListPrice:       {SourceShopify: "Variant Price", SourceCin7: "PriceTier1", SourceZoho: "Selling Price"},
		FieldStandardPrice:   {SourceShopify: "Cost per item", SourceCin7: "AverageCost", SourceZoho: "Purchase Price"},
		FieldQtyAvailable:    {SourceShopify: "Variant Inventory Qty", SourceZoho: "Stock On Hand"},
		FieldBarcode:         {SourceShopify: "Variant Barcode", SourceCin7: "Barcode"},
		FieldWeight:          {SourceShopify: "Variant Grams", SourceCin7: "Weight", SourceZoho: "Package Weight"},
		FieldCategory:        {SourceShopify: "Product Category", SourceCin7: "Category"},
		FieldImageURL:        {SourceShopify: "Image Src"},
		FieldHSCode:          {SourceCin7: "HSCode"},
		FieldCountryOfOrigin: {SourceCin7: "CountryOfOrigin"},
		FieldSEOTitle:        {SourceShopify: "SEO Title"},
		FieldSEODescription:  {SourceShopify: "SEO Description"},
	}
}

// defaultPriorities is the built-in per-field source preference.
// Cin7 leads identity fields, Shopify leads storefront fields, Zoho leads stock.
func defaultPriorities() map[CanonicalField][]SourceSystem {
	identity := []SourceSystem{SourceCin7, SourceShopify, SourceZoho}
	storefront := []SourceSystem{SourceShopify, SourceCin7, SourceZoho}
	customs := []SourceSystem{SourceCin7, SourceZoho, SourceShopify}

	return map[CanonicalField][]SourceSystem{
		FieldSKU:             identity,
		FieldName:            identity,
		FieldDescription:     identity,
		FieldListPrice:       storefront,
		FieldStandardPrice:   {SourceCin7, SourceZoho, SourceShopify},
		FieldQtyAvailable:    {SourceZoho, SourceCin7, SourceShopify},
		FieldBarcode:         identity,
		FieldWeight:          identity,
		FieldCategory:        identity,
		FieldImageURL:        storefront,
		FieldHSCode:          customs,
		FieldCountryOfOrigin: customs,
		FieldSEOTitle:        storefront,
		FieldSEODescription:  storefront,
	}
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := New(defaultColumns(), defaultPriorities())
	if err != nil {
		panic("programming error: default schema registry is invalid: " + err.Error())
	}
	return r
}
