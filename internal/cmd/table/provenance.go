package table

import (
	"fmt"
	"time"

	"github.com/agentstation/skumerge/pkg/provenance"
)

// ProvenanceToTableData renders a provenance report with one row per
// value a field has held, the current value first.
func ProvenanceToTableData(report *provenance.Report) Data {
	var rows [][]string
	for _, rec := range report.Records {
		for i, f := range rec.Fields {
			sku := ""
			if i == 0 {
				sku = rec.SKU
			}
			rows = append(rows, provenanceRow(sku, f.Field.String(), "→", f.Current))

			// History is oldest first; the last entry is Current.
			for j := len(f.History) - 2; j >= 0; j-- {
				rows = append(rows, provenanceRow("", "", "", f.History[j]))
			}
		}
	}

	return Data{
		Headers: []string{"SKU", "Field", "Curr", "Value", "Source", "Reason", "When"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft,   // SKU
			AlignLeft,   // Field
			AlignCenter, // Curr
			AlignLeft,   // Value
			AlignLeft,   // Source
			AlignLeft,   // Reason
			AlignLeft,   // When
		},
	}
}

func provenanceRow(sku, field, marker string, p provenance.Provenance) []string {
	return []string{sku, field, marker, truncate(p.Value), p.Source.Label(), p.Reason, formatTimestamp(p.Timestamp.Time)}
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	diff := time.Since(t)
	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		return fmt.Sprintf("%d min ago", int(diff.Minutes()))
	}
	if diff < 24*time.Hour {
		return fmt.Sprintf("%d hr ago", int(diff.Hours()))
	}
	return t.Format("2006-01-02 15:04")
}
