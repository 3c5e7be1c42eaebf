package schema

import (
	"strings"

	"github.com/agentstation/skumerge/pkg/errors"
)

// SourceSystem identifies which export format a file matches.
type SourceSystem string

// Known source systems.
const (
	// SourceShopify is source A: Shopify product exports. Weights are in grams.
	SourceShopify SourceSystem = "shopify"
	// SourceCin7 is source B: Cin7 product exports.
	SourceCin7 SourceSystem = "cin7"
	// SourceZoho is source C: Zoho Inventory item exports.
	SourceZoho SourceSystem = "zoho"
	// SourceUnknown is any file whose headers match no known fingerprint.
	SourceUnknown SourceSystem = "unknown"
)

// String returns the string representation of a source system.
func (s SourceSystem) String() string {
	return string(s)
}

// Label returns the short display name of a source system.
func (s SourceSystem) Label() string {
	switch s {
	case SourceShopify:
		return "Shopify"
	case SourceCin7:
		return "Cin7"
	case SourceZoho:
		return "Zoho"
	default:
		return "Unknown"
	}
}

// IsKnown reports whether s is one of the recognized export formats.
func (s SourceSystem) IsKnown() bool {
	switch s {
	case SourceShopify, SourceCin7, SourceZoho:
		return true
	}
	return false
}

// KnownSources returns the recognized source systems in canonical order.
func KnownSources() []SourceSystem {
	return []SourceSystem{SourceShopify, SourceCin7, SourceZoho}
}

// ParseSourceSystem converts a name (case-insensitive) into a known SourceSystem.
func ParseSourceSystem(name string) (SourceSystem, error) {
	s := SourceSystem(strings.ToLower(strings.TrimSpace(name)))
	if !s.IsKnown() {
		return SourceUnknown, errors.NewValidationError("source", name, "must be one of shopify, cin7, zoho")
	}
	return s, nil
}

// Detect derives the source system from a file's header row.
// The check runs on the lowercased, comma-joined header line so partial
// column names such as "Variant SKU" match regardless of position.
func Detect(headers []string) SourceSystem {
	line := strings.ToLower(strings.Join(headers, ","))

	switch {
	case strings.Contains(line, "handle") && strings.Contains(line, "variant sku"):
		return SourceShopify
	case strings.Contains(line, "productcode") || strings.Contains(line, "averagecost"):
		return SourceCin7
	case strings.Contains(line, "item id") ||
		(strings.Contains(line, "stock on hand") && strings.Contains(line, "item name")):
		return SourceZoho
	default:
		return SourceUnknown
	}
}
