// Package completion installs and removes shell completion scripts.
package completion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/skumerge/internal/cmd/constants"
	pkgconstants "github.com/agentstation/skumerge/pkg/constants"
	"github.com/agentstation/skumerge/pkg/errors"
)

const binary = "skumerge"

// Generate writes the completion script for shell to w.
func Generate(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case constants.ShellBash:
		return root.GenBashCompletionV2(w, true)
	case constants.ShellZsh:
		return root.GenZshCompletion(w)
	case constants.ShellFish:
		return root.GenFishCompletion(w, true)
	case constants.ShellPowerShell:
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return errors.NewValidationError("shell", shell, "unsupported shell")
	}
}

// Install writes the completion script for shell to its install location
// and returns that path.
func Install(root *cobra.Command, shell string) (string, error) {
	path, err := Path(shell)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), pkgconstants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", filepath.Dir(path), err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, pkgconstants.FilePermissions) // #nosec G304 - path is built by Path
	if err != nil {
		return "", errors.WrapIO("create", path, err)
	}
	if err := Generate(root, shell, f); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.WrapIO("close", path, err)
	}
	return path, nil
}

// Uninstall removes the installed completion script for shell. It reports
// false when nothing was installed.
func Uninstall(shell string) (string, bool, error) {
	path, err := Path(shell)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return path, false, nil
	}
	if err := os.Remove(path); err != nil {
		return path, false, errors.WrapIO("remove", path, err)
	}
	return path, true, nil
}

// Path returns where the completion script for shell is installed.
// A Homebrew prefix is preferred when one is present; otherwise the
// script goes under the user's home directory.
func Path(shell string) (string, error) {
	prefix := brewPrefix()
	home, err := os.UserHomeDir()
	if err != nil && prefix == "" {
		return "", errors.WrapIO("resolve", "home directory", err)
	}

	switch shell {
	case constants.ShellBash:
		if prefix != "" {
			return filepath.Join(prefix, "etc", "bash_completion.d", binary), nil
		}
		return filepath.Join(home, ".bash_completion.d", binary), nil
	case constants.ShellZsh:
		if prefix != "" {
			return filepath.Join(prefix, "share", "zsh", "site-functions", "_"+binary), nil
		}
		return filepath.Join(home, ".zsh", "completions", "_"+binary), nil
	case constants.ShellFish:
		if prefix != "" {
			return filepath.Join(prefix, "share", "fish", "vendor_completions.d", binary+".fish"), nil
		}
		return filepath.Join(home, ".config", "fish", "completions", binary+".fish"), nil
	default:
		return "", errors.NewValidationError("shell", shell, fmt.Sprintf("cannot install completions for %s", shell))
	}
}

func brewPrefix() string {
	if p := os.Getenv("HOMEBREW_PREFIX"); p != "" {
		return p
	}
	for _, p := range []string{"/opt/homebrew", "/usr/local"} {
		if _, err := os.Stat(filepath.Join(p, "bin", "brew")); err == nil {
			return p
		}
	}
	return ""
}
