package transform

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agentstation/skumerge/pkg/constants"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	spacePattern      = regexp.MustCompile(`\s+`)
	nonNumericPattern = regexp.MustCompile(`[^0-9.\-]`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

var truthy = map[string]bool{
	"true":   true,
	"1":      true,
	"yes":    true,
	"active": true,
}

func defaultValue(out string, opts Options) string {
	switch out {
	case "type":
		return opts.DefaultType
	case "categ_id":
		return opts.DefaultCategory
	case "uom_id":
		return constants.DefaultUnitOfMeasure
	case "sale_ok", "purchase_ok", "active":
		return constants.BoolTrue
	case "tracking":
		return constants.DefaultTracking
	default:
		return ""
	}
}

func isDescriptive(out string) bool {
	return strings.Contains(out, "description") || strings.Contains(out, "ecommerce")
}

func isMonetary(out string) bool {
	return strings.Contains(out, "price") || strings.Contains(out, "cost")
}

func isBoolean(out string) bool {
	return strings.Contains(out, "_ok") || out == "active" || out == "is_published"
}

func cleanHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = entityReplacer.Replace(s)
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func normalizePrice(s string) string {
	s = nonNumericPattern.ReplaceAllString(s, "")
	if s == "" {
		return "0"
	}
	return s
}

func normalizeBool(s string) string {
	if truthy[strings.ToLower(strings.TrimSpace(s))] {
		return constants.BoolTrue
	}
	return constants.BoolFalse
}

// gramsToPounds leaves values that are not numbers untouched.
func gramsToPounds(s string) string {
	grams, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(grams/constants.GramsPerPound, 'f', constants.WeightPrecision, 64)
}
