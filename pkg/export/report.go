package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agentstation/utc"
	md "github.com/nao1215/markdown"

	"github.com/agentstation/skumerge/pkg/conflicts"
	"github.com/agentstation/skumerge/pkg/intake"
	"github.com/agentstation/skumerge/pkg/provenance"
	"github.com/agentstation/skumerge/pkg/reconciler"
	"github.com/agentstation/skumerge/pkg/validate"
)

// ReportInput is everything a reconciliation report covers.
type ReportInput struct {
	SessionID  string
	Generated  utc.Time
	Files      []*intake.File
	Stats      reconciler.Stats
	Groups     []conflicts.FieldConflictGroup
	Ledger     *conflicts.Ledger
	Validation *validate.Report
	Provenance provenance.Map
}

// WriteReport writes a markdown reconciliation report.
func WriteReport(w io.Writer, in ReportInput) error {
	doc := md.NewMarkdown(w)

	doc.H1("Reconciliation Report").LF()
	if in.SessionID != "" {
		doc.PlainTextf("Session %s", md.Code(in.SessionID)).LF()
	}
	if !in.Generated.IsZero() {
		doc.PlainTextf("Generated %s", in.Generated.Time.Format("2006-01-02 15:04:05 MST")).LF()
	}
	doc.LF()

	if len(in.Files) > 0 {
		doc.H2("Files").LF()
		rows := make([][]string, 0, len(in.Files))
		for _, f := range in.Files {
			rows = append(rows, []string{f.Name, f.Source.Label(), strconv.Itoa(f.RowCount()), f.Encoding})
		}
		doc.Table(md.TableSet{
			Header: []string{"File", "Source", "Rows", "Encoding"},
			Rows:   rows,
		}).LF()
	}

	doc.H2("Summary").LF()
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Products", strconv.Itoa(in.Stats.Total)},
			{"Matched across sources", strconv.Itoa(in.Stats.Matched)},
			{"Single source", strconv.Itoa(in.Stats.Unique)},
			{"Skipped (no SKU)", strconv.Itoa(in.Stats.Skipped)},
			{"Conflicts", strconv.Itoa(in.Stats.Conflicts)},
			{"Completeness", fmt.Sprintf("%d%%", in.Stats.Completeness)},
		},
	}).LF()

	doc.H2("Conflicts").LF()
	if len(in.Groups) == 0 {
		doc.PlainText("No conflicts were found.").LF()
	} else {
		rows := make([][]string, 0, len(in.Groups))
		for _, g := range in.Groups {
			status := "unresolved"
			if g.Resolved() {
				status = "resolved"
			}
			selected := "-"
			if g.SelectedSource != "" {
				selected = g.SelectedSource.Label()
			}
			rows = append(rows, []string{
				g.Field.String(),
				strconv.Itoa(g.Total),
				fmt.Sprintf("%d/%d", g.ResolvedCount, g.Total),
				selected,
				status,
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Field", "Products", "Resolved", "Chosen Source", "Status"},
			Rows:   rows,
		}).LF()
	}

	if in.Validation != nil && len(in.Validation.Issues) > 0 {
		doc.H2("Validation").LF()
		rows := make([][]string, 0, len(in.Validation.Issues))
		for _, issue := range in.Validation.Issues {
			rows = append(rows, []string{string(issue.Severity), issue.SKU, issue.Field.String(), issue.Message})
		}
		doc.Table(md.TableSet{
			Header: []string{"Severity", "SKU", "Field", "Message"},
			Rows:   rows,
		}).LF()
	}

	if in.Ledger != nil && in.Ledger.Total() > 0 && len(in.Provenance) > 0 {
		doc.H2("Provenance").LF()
		report := provenance.GenerateReport(in.Provenance, in.Ledger.SKUs()...)
		for _, rec := range report.Records {
			doc.H3(rec.SKU).LF()
			items := make([]string, 0, len(rec.Fields))
			for _, f := range rec.Fields {
				items = append(items, provenanceItem(f))
			}
			doc.BulletList(items...).LF()
		}
	}

	return doc.Build()
}

func provenanceItem(f provenance.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s from %s (%s)", md.Bold(f.Field.String()), f.Current.Value, f.Current.Source.Label(), f.Current.Reason)
	if f.Overridden() {
		fmt.Fprintf(&b, ", was %s", f.Current.PreviousValue)
	}
	return b.String()
}
