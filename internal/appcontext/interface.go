// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App so they can be tested with Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/skumerge/pkg/schema"
	"github.com/agentstation/skumerge/pkg/session"
	"github.com/agentstation/skumerge/pkg/transform"
)

// Interface defines the application context that commands need.
type Interface interface {
	// Registry returns the schema registry, with any configured
	// overrides file applied. It is built once and reused.
	Registry() (*schema.Registry, error)

	// NewSession creates a session configured from the application
	// config. opts are applied after the configured ones.
	NewSession(opts ...session.Option) (*session.Session, error)

	// TransformOptions returns the configured conversion defaults.
	TransformOptions() transform.Options

	// OutputDir returns the configured directory for converted files.
	OutputDir() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
