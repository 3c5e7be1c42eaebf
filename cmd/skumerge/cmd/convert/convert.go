// Package convert provides the convert command.
package convert

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/skumerge/cmd/skumerge/cmd/merge"
	"github.com/agentstation/skumerge/internal/appcontext"
	"github.com/agentstation/skumerge/internal/cmd/cmdutil"
	"github.com/agentstation/skumerge/internal/cmd/emoji"
	"github.com/agentstation/skumerge/internal/cmd/table"
	"github.com/agentstation/skumerge/pkg/conflicts"
	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/schema"
	"github.com/agentstation/skumerge/pkg/session"
	"github.com/agentstation/skumerge/pkg/transform"
)

// Flags holds the convert command flags.
type Flags struct {
	Resolve            []string
	AutoResolve        bool
	Template           string
	Map                []string
	Disable            []string
	NoCleanHTML        bool
	NoNormalizePrices  bool
	NoWeightConversion bool
	DefaultType        string
	DefaultCategory    string
	OutDir             string
	Stdout             bool
	Report             string
}

// Result is the machine-readable outcome of a conversion.
type Result struct {
	Resolutions []conflicts.Resolution  `json:"resolutions,omitempty" yaml:"resolutions,omitempty"`
	Conversion  *session.ConvertSummary `json:"conversion" yaml:"conversion"`
	Path        string                  `json:"path,omitempty" yaml:"path,omitempty"`
}

// NewCommand creates the convert command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "convert FILE...",
		GroupID: "core",
		Short:   "Merge source exports and write an Odoo product import",
		Long: `Convert merges the files, applies conflict resolutions and writes the
merged products as an Odoo import CSV.

Conversion is blocked while any conflict is unresolved. Resolve fields
explicitly with --resolve FIELD=SOURCE, or use --auto-resolve to apply
the per-field source priority to everything left.`,
		Example: `  skumerge convert shopify.csv cin7.csv --auto-resolve
  skumerge convert shopify.csv cin7.csv --resolve list_price=cin7 --auto-resolve
  skumerge convert a.csv b.csv --auto-resolve --template ecommerce --disable volume
  skumerge convert a.csv b.csv --auto-resolve --map categ_id=category --stdout`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.OutDir == "" {
				flags.OutDir = app.OutputDir()
			}
			return run(cmd, app, flags, args)
		},
	}

	cmd.Flags().StringArrayVar(&flags.Resolve, "resolve", nil, "resolve a field's conflicts with a source, FIELD=SOURCE (repeatable)")
	cmd.Flags().BoolVar(&flags.AutoResolve, "auto-resolve", false, "resolve remaining conflicts by source priority")
	cmd.Flags().StringVar(&flags.Template, "template", "", "output template: minimal, standard, ecommerce")
	cmd.Flags().StringArrayVar(&flags.Map, "map", nil, "feed an output column from a canonical field, OUT=FIELD (repeatable)")
	cmd.Flags().StringArrayVar(&flags.Disable, "disable", nil, "drop an output column (repeatable)")
	cmd.Flags().BoolVar(&flags.NoCleanHTML, "no-clean-html", false, "keep HTML in descriptions")
	cmd.Flags().BoolVar(&flags.NoNormalizePrices, "no-normalize-prices", false, "keep prices as merged")
	cmd.Flags().BoolVar(&flags.NoWeightConversion, "no-weight-conversion", false, "do not convert gram weights to pounds")
	cmd.Flags().StringVar(&flags.DefaultType, "default-type", "", "product type when none is mapped")
	cmd.Flags().StringVar(&flags.DefaultCategory, "default-category", "", "category when none is mapped")
	cmd.Flags().StringVar(&flags.OutDir, "out-dir", "", "directory for the output file (default from config)")
	cmd.Flags().BoolVar(&flags.Stdout, "stdout", false, "write the CSV to stdout instead of a file")
	cmd.Flags().StringVar(&flags.Report, "report", "", "write a markdown reconciliation report to PATH")

	return cmd
}

// Apply edits opts from the flags. Only flags that were given change opts.
func (f *Flags) Apply(cmd *cobra.Command, opts *transform.Options) error {
	changed := cmd.Flags().Changed

	if f.Template != "" {
		opts.Template = f.Template
	}
	mapping, err := cmdutil.ParseAssignments("map", f.Map)
	if err != nil {
		return err
	}
	for _, m := range mapping {
		var field schema.CanonicalField
		if m.Value != "" {
			if field, err = schema.ParseField(m.Value); err != nil {
				return err
			}
		}
		if opts.Mapping == nil {
			opts.Mapping = make(map[string]schema.CanonicalField)
		}
		opts.Mapping[m.Key] = field
	}
	for _, out := range f.Disable {
		if opts.Disabled == nil {
			opts.Disabled = make(map[string]bool)
		}
		opts.Disabled[out] = true
	}
	if changed("no-clean-html") {
		opts.CleanHTML = !f.NoCleanHTML
	}
	if changed("no-normalize-prices") {
		opts.NormalizePrices = !f.NoNormalizePrices
	}
	if changed("no-weight-conversion") {
		opts.ConvertGramWeights = !f.NoWeightConversion
	}
	if changed("default-type") {
		opts.DefaultType = f.DefaultType
	}
	if changed("default-category") {
		opts.DefaultCategory = f.DefaultCategory
	}
	return nil
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags, paths []string) error {
	ctx := cmd.Context()
	logger := app.Logger()

	opts := app.TransformOptions()
	if err := flags.Apply(cmd, &opts); err != nil {
		return err
	}
	for _, out := range append(keys(opts.Mapping), flags.Disable...) {
		if !schema.IsOutputField(out) {
			return errors.NewValidationError("output_field", out, "not a column of any template")
		}
	}
	resolves, err := cmdutil.ParseAssignments("resolve", flags.Resolve)
	if err != nil {
		return err
	}

	sess, summary, err := cmdutil.Merge(ctx, app, paths, session.WithTransformOptions(opts))
	if err != nil {
		return err
	}

	var result Result
	for _, r := range resolves {
		field, err := schema.ParseField(r.Key)
		if err != nil {
			return err
		}
		source, err := schema.ParseSourceSystem(r.Value)
		if err != nil {
			return err
		}
		res, err := sess.ResolveField(field, source)
		if err != nil {
			return err
		}
		result.Resolutions = append(result.Resolutions, res)
	}
	if flags.AutoResolve {
		res, err := sess.ResolveAllByPriority()
		if err != nil {
			return err
		}
		result.Resolutions = append(result.Resolutions, res...)
	}

	if flags.Report != "" {
		if err := merge.WriteReport(sess, flags.Report); err != nil {
			return err
		}
	}

	if n := sess.UnresolvedCount(); n > 0 {
		// Show what is still open before failing the gate.
		if err := printUnresolved(cmd, app, sess); err != nil {
			return err
		}
	}
	if err := sess.ProceedToConversion(); err != nil {
		return err
	}
	conv, err := sess.Convert(ctx)
	if err != nil {
		return err
	}
	result.Conversion = conv

	logger.Info().
		Int("products", summary.Stats.Total).
		Int("resolutions", len(result.Resolutions)).
		Str("template", conv.Template).
		Msg("Conversion finished")

	if flags.Stdout {
		_, err := sess.Download(cmd.OutOrStdout())
		return err
	}

	dir := flags.OutDir
	if dir == "" {
		dir = app.OutputDir()
	}
	path, err := sess.Save(dir)
	if err != nil {
		return err
	}
	result.Path = path

	printer, err := cmdutil.Printer(cmd, app)
	if err != nil {
		return err
	}
	if !printer.Format().IsTable() {
		return printer.Print(result, table.Data{})
	}
	printer.Linef("%s %d products written to %s (%s template, %d columns)",
		emoji.Success, conv.Rows, path, conv.Template, len(conv.Headers))
	return nil
}

func printUnresolved(cmd *cobra.Command, app appcontext.Interface, sess *session.Session) error {
	printer, err := cmdutil.Printer(cmd, app)
	if err != nil {
		return err
	}
	var open []conflicts.FieldConflictGroup
	for _, g := range sess.Conflicts() {
		if !g.Resolved() {
			open = append(open, g)
		}
	}
	return printer.Section("unresolved conflicts", table.GroupsToTableData(open, printer.Wide()))
}

func keys(m map[string]schema.CanonicalField) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
