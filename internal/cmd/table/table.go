// Package table converts reconciliation results into rows for CLI tables.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/skumerge/internal/cmd/emoji"
	"github.com/agentstation/skumerge/pkg/conflicts"
	"github.com/agentstation/skumerge/pkg/reconciler"
	"github.com/agentstation/skumerge/pkg/schema"
	"github.com/agentstation/skumerge/pkg/session"
	"github.com/agentstation/skumerge/pkg/validate"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data is a rendered table: headers, rows and optional per-column alignment.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// maxValueWidth bounds sample values in conflict tables.
const maxValueWidth = 40

// FilesToTableData lists loaded files.
func FilesToTableData(files []session.FileInfo, wide bool) Data {
	headers := []string{"File", "Source", "Rows", "Encoding"}
	if wide {
		headers = append(headers, "Fields", "Warnings")
	}

	rows := make([][]string, 0, len(files))
	for _, f := range files {
		row := []string{f.Name, f.Label, strconv.Itoa(f.Rows), f.Encoding}
		if wide {
			row = append(row, joinFields(f.Fields), strconv.Itoa(len(f.Warnings)))
		}
		rows = append(rows, row)
	}

	align := []Align{AlignLeft, AlignLeft, AlignRight, AlignLeft}
	if wide {
		align = append(align, AlignLeft, AlignRight)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// StatsToTableData renders merge statistics as a key/value table.
func StatsToTableData(stats reconciler.Stats) Data {
	return Data{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Products", strconv.Itoa(stats.Total)},
			{"Matched across files", strconv.Itoa(stats.Matched)},
			{"Single file", strconv.Itoa(stats.Unique)},
			{"Skipped rows", strconv.Itoa(stats.Skipped)},
			{"Conflicts", strconv.Itoa(stats.Conflicts)},
			{"Completeness", strconv.Itoa(stats.Completeness) + "%"},
		},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// GroupsToTableData lists one row per conflicting field.
func GroupsToTableData(groups []conflicts.FieldConflictGroup, wide bool) Data {
	headers := []string{"Field", "Products", "Sources", "Status", "Selected"}
	if wide {
		headers = append(headers, "Sample Values")
	}

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		status := fmt.Sprintf("%s %d/%d", emoji.Warning, g.ResolvedCount, g.Total)
		if g.Resolved() {
			status = fmt.Sprintf("%s %d/%d", emoji.Success, g.ResolvedCount, g.Total)
		}
		selected := "-"
		if g.SelectedSource != "" {
			selected = g.SelectedSource.Label()
		}
		row := []string{g.Field.String(), strconv.Itoa(g.Total), joinSources(g.Sources), status, selected}
		if wide {
			row = append(row, joinValues(g.SampleValues))
		}
		rows = append(rows, row)
	}

	align := []Align{AlignLeft, AlignRight, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		align = append(align, AlignLeft)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// ConflictsToTableData lists the per-product conflicts of one field.
func ConflictsToTableData(list []conflicts.FieldConflict) Data {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		state := emoji.Warning
		if c.Resolved {
			state = emoji.Success
		}
		source := c.ActualSource.Label()
		if c.IsFallback() {
			source += " (requested " + c.SelectedSource.Label() + ")"
		}
		rows = append(rows, []string{state, c.SKU, joinValues(c.Values), truncate(c.Selected), source})
	}
	return Data{
		Headers:         []string{"", "SKU", "Values", "Selected", "Source"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignLeft},
	}
}

// IssuesToTableData lists validation issues.
func IssuesToTableData(report *validate.Report) Data {
	var rows [][]string
	if report != nil {
		for _, i := range report.Issues {
			sym := emoji.Warning
			if i.Severity == validate.SeverityError {
				sym = emoji.Error
			}
			rows = append(rows, []string{sym, string(i.Severity), i.SKU, i.Message})
		}
	}
	return Data{
		Headers:         []string{"", "Severity", "SKU", "Message"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft},
	}
}

// SchemaToTableData renders the registry: per-source column and priority per field.
func SchemaToTableData(registry *schema.Registry) Data {
	sources := schema.KnownSources()
	headers := []string{"Field"}
	for _, src := range sources {
		headers = append(headers, src.Label())
	}
	headers = append(headers, "Priority")

	var rows [][]string
	for _, e := range registry.Entries() {
		row := []string{e.Field.String()}
		for _, src := range sources {
			col, ok := e.Columns[src]
			if !ok {
				col = emoji.Optional
			}
			row = append(row, col)
		}
		row = append(row, joinSources(e.Priority))
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// TemplatesToTableData lists the output templates.
func TemplatesToTableData(templates []schema.Template) Data {
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{t.Name, strconv.Itoa(len(t.Fields)), t.Description})
	}
	return Data{
		Headers:         []string{"Template", "Columns", "Description"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// MappingToTableData shows each column of a template, the canonical field
// feeding it and whether it is written.
func MappingToTableData(tmpl schema.Template, mapping map[string]schema.CanonicalField, disabled map[string]bool) Data {
	rows := make([][]string, 0, len(tmpl.Fields))
	for _, out := range tmpl.Fields {
		field := emoji.Optional
		if f := mapping[out]; f != "" {
			field = f.String()
		}
		enabled := emoji.Success
		if disabled[out] {
			enabled = emoji.Error
		}
		rows = append(rows, []string{out, field, enabled})
	}
	return Data{
		Headers:         []string{"Column", "Canonical Field", "Enabled"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignCenter},
	}
}

func joinSources(sources []schema.SourceSystem) string {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Label())
	}
	return strings.Join(names, ", ")
}

func joinFields(fields []schema.CanonicalField) string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}

func joinValues(values []conflicts.SourceValue) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Source.Label(), truncate(v.Value)))
	}
	return strings.Join(parts, " | ")
}

func truncate(s string) string {
	if s == "" {
		return "<empty>"
	}
	r := []rune(s)
	if len(r) > maxValueWidth {
		return string(r[:maxValueWidth-3]) + "..."
	}
	return s
}
