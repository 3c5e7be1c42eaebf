// Package templates provides the templates command.
package templates

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/skumerge/internal/appcontext"
	"github.com/agentstation/skumerge/internal/cmd/cmdutil"
	"github.com/agentstation/skumerge/internal/cmd/table"
	"github.com/agentstation/skumerge/pkg/schema"
)

// NewCommand creates the templates command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "templates [NAME]",
		GroupID: "reference",
		Short:   "List output templates or show one",
		Long: `Templates lists the Odoo import templates. Given a name, it shows the
template's columns, the canonical field feeding each column under the
configured mapping, and whether the column is enabled.`,
		Example: `  skumerge templates
  skumerge templates ecommerce`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := cmdutil.Printer(cmd, app)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				all := schema.Templates()
				return printer.Print(all, table.TemplatesToTableData(all))
			}

			tmpl, err := schema.LookupTemplate(args[0])
			if err != nil {
				return err
			}
			opts := app.TransformOptions()
			opts.Template = tmpl.Name
			mapping, err := opts.EffectiveMapping()
			if err != nil {
				return err
			}
			raw := struct {
				schema.Template `yaml:",inline"`
				Mapping         map[string]schema.CanonicalField `json:"mapping" yaml:"mapping"`
				Disabled        []string                         `json:"disabled,omitempty" yaml:"disabled,omitempty"`
			}{tmpl, mapping, opts.DisabledFields()}
			return printer.Print(raw, table.MappingToTableData(tmpl, mapping, opts.Disabled))
		},
	}
}
