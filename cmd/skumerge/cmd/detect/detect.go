// Package detect provides the detect command.
package detect

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/skumerge/internal/appcontext"
	"github.com/agentstation/skumerge/internal/cmd/cmdutil"
	"github.com/agentstation/skumerge/internal/cmd/emoji"
	"github.com/agentstation/skumerge/internal/cmd/table"
	"github.com/agentstation/skumerge/pkg/intake"
	"github.com/agentstation/skumerge/pkg/session"
)

// NewCommand creates the detect command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "detect FILE...",
		GroupID: "core",
		Short:   "Show the detected source system of each file",
		Long: `Detect parses each file, identifies its source system from the header
row and lists the canonical fields that system supplies.

Any number of files may be given; no merge is performed.`,
		Example: `  skumerge detect shopify.csv cin7.csv zoho.csv
  skumerge detect export.csv -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args)
		},
	}
}

func run(cmd *cobra.Command, app appcontext.Interface, paths []string) error {
	registry, err := app.Registry()
	if err != nil {
		return err
	}
	printer, err := cmdutil.Printer(cmd, app)
	if err != nil {
		return err
	}

	var summary session.LoadSummary
	for _, r := range intake.LoadAll(cmd.Context(), cmdutil.Inputs(paths)) {
		if r.Err != nil {
			summary.Failed = append(summary.Failed, session.FileFailure{Name: r.Name, Error: r.Err.Error()})
			continue
		}
		summary.Files = append(summary.Files, session.Describe(r.File, registry))
	}

	if err := printer.Print(summary, table.FilesToTableData(summary.Files, printer.Wide())); err != nil {
		return err
	}
	for _, f := range summary.Failed {
		printer.Linef("%s %s: %s", emoji.Error, f.Name, f.Error)
	}
	return nil
}
