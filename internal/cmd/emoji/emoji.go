// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols shared by every command.
const (
	// Success marks a completed step: files loaded, a merge run, a CSV written.
	Success = "✓"

	// Error marks a file or step that failed.
	Error = "✗"

	// Stop marks a shutdown or other blocking condition.
	Stop = "✗"

	// Warning marks something the operator should look at before converting,
	// such as unresolved conflicts or validation findings.
	Warning = "!"

	// Optional marks an absent mapping, such as a source that never exports
	// a field.
	Optional = "-"
)
