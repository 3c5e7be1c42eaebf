// Package validate reports structural problems in merged data. Issues are
// advisory: no record is ever dropped because of them.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agentstation/skumerge/pkg/reconciler"
	"github.com/agentstation/skumerge/pkg/schema"
)

// Severity classifies an issue.
type Severity string

// Severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding.
type Issue struct {
	Severity Severity              `json:"severity" yaml:"severity"`
	SKU      string                `json:"sku,omitempty" yaml:"sku,omitempty"`
	Field    schema.CanonicalField `json:"field,omitempty" yaml:"field,omitempty"`
	File     string                `json:"file,omitempty" yaml:"file,omitempty"`
	Row      int                   `json:"row,omitempty" yaml:"row,omitempty"`
	Message  string                `json:"message" yaml:"message"`
}

// Report collects issues in discovery order.
type Report struct {
	Issues []Issue `json:"issues" yaml:"issues"`
}

// Errors returns the error-severity issues.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity issues.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// HasErrors reports whether any issue is an error.
func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

func (r *Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// Validate checks a merge result.
func Validate(result *reconciler.Result) *Report {
	report := &Report{}
	if result == nil {
		return report
	}

	for _, rec := range result.Skipped {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Field:    schema.BusinessKey,
			File:     rec.File,
			Row:      rec.Row,
			Message:  fmt.Sprintf("Row %d in %s has no SKU", rec.Row, rec.File),
		})
	}

	for _, rec := range result.Records {
		if rec.Value(schema.FieldName) == "" {
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityError,
				SKU:      rec.SKU,
				Field:    schema.FieldName,
				Message:  fmt.Sprintf("Product %s is missing a name", rec.SKU),
			})
		}

		price := rec.Value(schema.FieldListPrice)
		switch {
		case price == "":
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityWarning,
				SKU:      rec.SKU,
				Field:    schema.FieldListPrice,
				Message:  fmt.Sprintf("Product %s has no price", rec.SKU),
			})
		case !isNumber(price):
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityError,
				SKU:      rec.SKU,
				Field:    schema.FieldListPrice,
				Message:  fmt.Sprintf("Product %s has invalid price: %s", rec.SKU, price),
			})
		}
	}

	return report
}

// isNumber accepts plain decimal numbers only. ParseFloat alone would also
// take NaN, Inf and hex floats.
func isNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.IndexFunc(s, notDecimal) >= 0 {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func notDecimal(r rune) bool {
	return !strings.ContainsRune("0123456789.+-eE", r)
}
