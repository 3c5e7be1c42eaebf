// Package constants provides shared constants for CLI commands.
package constants

// Shells that completion scripts can be generated for.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// InstallableShells are the shells whose completions can be installed to a
// well-known location.
var InstallableShells = []string{ShellBash, ShellZsh, ShellFish}
