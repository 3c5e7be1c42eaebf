// Package schema provides the schema command.
package schema

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/skumerge/internal/appcontext"
	"github.com/agentstation/skumerge/internal/cmd/cmdutil"
	"github.com/agentstation/skumerge/internal/cmd/table"
)

// NewCommand creates the schema command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "schema",
		GroupID: "reference",
		Short:   "Show the schema registry",
		Long: `Schema prints every canonical field with its column name in each source
system and the source priority used when the sources disagree.

Overrides from the configured schema_file are included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := app.Registry()
			if err != nil {
				return err
			}
			printer, err := cmdutil.Printer(cmd, app)
			if err != nil {
				return err
			}
			return printer.Print(registry.Entries(), table.SchemaToTableData(registry))
		},
	}
}
