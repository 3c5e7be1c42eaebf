// Package cmdutil provides helpers shared by the skumerge commands: output
// printers, loading files into a session and parsing key=value flags.
package cmdutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/skumerge/internal/appcontext"
	"github.com/agentstation/skumerge/internal/cmd/output"
	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/intake"
	"github.com/agentstation/skumerge/pkg/session"
)

// Printer returns a printer for the configured output format writing to
// the command's stdout.
func Printer(cmd *cobra.Command, app appcontext.Interface) (*output.Printer, error) {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(cmd.OutOrStdout(), output.DetectFormat(string(format))), nil
}

// Inputs turns file paths into intake inputs.
func Inputs(paths []string) []intake.Input {
	inputs := make([]intake.Input, 0, len(paths))
	for _, p := range paths {
		inputs = append(inputs, intake.OpenPath(p))
	}
	return inputs
}

// LoadSession creates a session and loads paths into it. Files that fail to
// load are logged and listed in the summary.
func LoadSession(ctx context.Context, app appcontext.Interface, paths []string, opts ...session.Option) (*session.Session, session.LoadSummary, error) {
	sess, err := app.NewSession(opts...)
	if err != nil {
		return nil, session.LoadSummary{}, err
	}
	summary, err := sess.LoadFiles(ctx, Inputs(paths))
	if err != nil {
		return nil, summary, err
	}
	for _, f := range summary.Failed {
		app.Logger().Warn().Str("file", f.Name).Msg(f.Error)
	}
	return sess, summary, nil
}

// Merge loads paths into a new session and runs the merge.
func Merge(ctx context.Context, app appcontext.Interface, paths []string, opts ...session.Option) (*session.Session, *session.MergeSummary, error) {
	sess, _, err := LoadSession(ctx, app, paths, opts...)
	if err != nil {
		return nil, nil, err
	}
	summary, err := sess.RunMerge(ctx)
	if err != nil {
		return nil, nil, err
	}
	return sess, summary, nil
}

// Assignment is one key=value flag value.
type Assignment struct {
	Key   string
	Value string
}

// ParseAssignments parses repeated key=value flag values in order. An empty
// value is allowed; a missing "=" or an empty key is not.
func ParseAssignments(flag string, values []string) ([]Assignment, error) {
	out := make([]Assignment, 0, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.NewValidationError(flag, v, fmt.Sprintf("expected key=value, got %q", v))
		}
		out = append(out, Assignment{Key: key, Value: strings.TrimSpace(value)})
	}
	return out, nil
}
