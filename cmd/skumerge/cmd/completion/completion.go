// Package completion provides shell completion management commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/skumerge/internal/cmd/completion"
	"github.com/agentstation/skumerge/internal/cmd/constants"
	"github.com/agentstation/skumerge/internal/cmd/emoji"
)

// NewCommand creates the completion command. It replaces cobra's default
// completion command to add install and uninstall.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Manage shell completions",
		Long: `Generate shell completion scripts, or install them for your shell.

Examples:
  # Load bash completions into the current shell
  source <(skumerge completion bash)

  # Install completions for bash, zsh and fish
  skumerge completion install

  # Remove zsh completions only
  skumerge completion uninstall zsh`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	for _, shell := range []string{constants.ShellBash, constants.ShellZsh, constants.ShellFish, constants.ShellPowerShell} {
		cmd.AddCommand(newGenerateCommand(shell))
	}
	cmd.AddCommand(newInstallCommand())
	cmd.AddCommand(newUninstallCommand())
	return cmd
}

func newGenerateCommand(shell string) *cobra.Command {
	return &cobra.Command{
		Use:                   shell,
		Short:                 fmt.Sprintf("Generate %s completion script", shell),
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return completion.Generate(cmd.Root(), shell, cmd.OutOrStdout())
		},
	}
}

func newInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "install [bash|zsh|fish]...",
		Short:     "Install shell completions",
		Long:      "Install completions for the named shells, or for bash, zsh and fish when none are named.",
		ValidArgs: constants.InstallableShells,
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, shell := range shells(args) {
				path, err := completion.Install(cmd.Root(), shell)
				if err != nil {
					return fmt.Errorf("install %s completions: %w", shell, err)
				}
				fmt.Fprintf(out, "%s %s completions installed to %s\n", emoji.Success, shell, path)
			}
			fmt.Fprintln(out, "Start a new shell session to enable completions.")
			return nil
		},
	}
}

func newUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "uninstall [bash|zsh|fish]...",
		Short:     "Remove shell completions",
		ValidArgs: constants.InstallableShells,
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, shell := range shells(args) {
				path, removed, err := completion.Uninstall(shell)
				if err != nil {
					fmt.Fprintf(out, "%s could not remove %s (try: sudo rm -f %s)\n", emoji.Error, path, path)
					continue
				}
				if removed {
					fmt.Fprintf(out, "%s removed %s completions from %s\n", emoji.Success, shell, path)
				} else {
					fmt.Fprintf(out, "%s no %s completions at %s\n", emoji.Warning, shell, path)
				}
			}
			return nil
		},
	}
}

func shells(args []string) []string {
	if len(args) == 0 {
		return constants.InstallableShells
	}
	return args
}
