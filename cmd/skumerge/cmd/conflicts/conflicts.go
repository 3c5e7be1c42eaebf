// Package conflicts provides the conflicts command.
package conflicts

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/skumerge/internal/appcontext"
	"github.com/agentstation/skumerge/internal/cmd/cmdutil"
	"github.com/agentstation/skumerge/internal/cmd/table"
	"github.com/agentstation/skumerge/pkg/schema"
)

// NewCommand creates the conflicts command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:     "conflicts FILE...",
		GroupID: "core",
		Short:   "List field conflicts between source exports",
		Long: `Conflicts merges the files and lists one group per conflicting field,
with the sources involved and the number of SKUs affected.

With --field, the per-SKU conflicts of that field are listed with the
value each source supplied.`,
		Example: `  skumerge conflicts shopify.csv cin7.csv
  skumerge conflicts shopify.csv cin7.csv --field list_price`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var canonical schema.CanonicalField
			if field != "" {
				f, err := schema.ParseField(field)
				if err != nil {
					return err
				}
				canonical = f
			}

			sess, summary, err := cmdutil.Merge(cmd.Context(), app, args)
			if err != nil {
				return err
			}
			printer, err := cmdutil.Printer(cmd, app)
			if err != nil {
				return err
			}

			if canonical == "" {
				return printer.Print(summary.Groups, table.GroupsToTableData(summary.Groups, printer.Wide()))
			}
			list, err := sess.FieldConflicts(canonical)
			if err != nil {
				return err
			}
			return printer.Print(list, table.ConflictsToTableData(list))
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "show the per-SKU conflicts of one canonical field")

	return cmd
}
