// Package merge provides the merge command.
package merge

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/skumerge/internal/appcontext"
	"github.com/agentstation/skumerge/internal/cmd/cmdutil"
	"github.com/agentstation/skumerge/internal/cmd/emoji"
	"github.com/agentstation/skumerge/internal/cmd/table"
	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/session"
)

// NewCommand creates the merge command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:     "merge FILE...",
		GroupID: "core",
		Short:   "Merge source exports by SKU and report conflicts",
		Long: `Merge loads every file, normalizes it through the schema registry and
merges the records by SKU.

The merge statistics, the conflict groups and any validation issues are
printed. Nothing is converted; use convert for that.`,
		Example: `  skumerge merge shopify.csv cin7.csv zoho.csv
  skumerge merge shopify.csv cin7.csv --report reconciliation.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, summary, err := cmdutil.Merge(cmd.Context(), app, args)
			if err != nil {
				return err
			}
			if err := Print(cmd, app, summary); err != nil {
				return err
			}
			if reportPath != "" {
				return WriteReport(sess, reportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "write a markdown reconciliation report to PATH")

	return cmd
}

// Print writes a merge summary in the configured format.
func Print(cmd *cobra.Command, app appcontext.Interface, summary *session.MergeSummary) error {
	printer, err := cmdutil.Printer(cmd, app)
	if err != nil {
		return err
	}
	if !printer.Format().IsTable() {
		return printer.Print(summary, table.Data{})
	}

	if err := printer.Print(summary, table.StatsToTableData(summary.Stats)); err != nil {
		return err
	}
	if err := printer.Section("conflicts", table.GroupsToTableData(summary.Groups, printer.Wide())); err != nil {
		return err
	}
	if err := printer.Section("validation", table.IssuesToTableData(summary.Validation)); err != nil {
		return err
	}
	if summary.Unresolved > 0 {
		printer.Linef("\n%s %d unresolved conflicts", emoji.Warning, summary.Unresolved)
	} else {
		printer.Linef("\n%s no conflicts", emoji.Success)
	}
	return nil
}

// WriteReport writes the session's markdown report to path.
func WriteReport(sess *session.Session, path string) error {
	f, err := os.Create(path) //nolint:gosec // operator supplied path
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := sess.Report(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	return nil
}
