// Package app provides the application context and dependency management
// for the skumerge CLI. It centralizes configuration, logging and the
// schema registry, and hands them to commands through appcontext.Interface.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/skumerge/internal/appcontext"
	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/schema"
	"github.com/agentstation/skumerge/pkg/session"
	"github.com/agentstation/skumerge/pkg/transform"
)

// App represents the skumerge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Schema registry (lazy-initialized, singleton)
	mu       sync.RWMutex
	registry *schema.Registry
}

var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the default locations; use WithConfig to
// supply one directly.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, err
		}
		app.config = config
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// OutputDir returns the directory converted files are written to.
func (a *App) OutputDir() string {
	return a.config.OutputDir
}

// TransformOptions returns a copy of the configured conversion defaults.
func (a *App) TransformOptions() transform.Options {
	return a.config.Transform.Clone()
}

// Registry returns the schema registry, creating it lazily if needed.
// The configured schema file, if any, is applied on top of the built-in
// registry.
func (a *App) Registry() (*schema.Registry, error) {
	a.mu.RLock()
	if a.registry != nil {
		r := a.registry
		a.mu.RUnlock()
		return r, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.registry != nil {
		return a.registry, nil
	}

	registry := schema.Default()
	if a.config.SchemaFile != "" {
		overrides, err := schema.LoadOverrides(a.config.SchemaFile)
		if err != nil {
			return nil, err
		}
		registry, err = registry.WithOverrides(overrides)
		if err != nil {
			return nil, errors.WrapConfig("schema_file", err)
		}
		a.logger.Debug().Str("file", a.config.SchemaFile).Msg("Schema overrides applied")
	}

	a.registry = registry
	return registry, nil
}

// NewSession creates a session configured from the application config.
func (a *App) NewSession(opts ...session.Option) (*session.Session, error) {
	registry, err := a.Registry()
	if err != nil {
		return nil, err
	}
	base := []session.Option{
		session.WithRegistry(registry),
		session.WithLogger(a.logger),
		session.WithMinFiles(a.config.MinFiles),
		session.WithTransformOptions(a.config.Transform),
	}
	return session.New(append(base, opts...)...)
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutdown complete")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRegistry sets a custom schema registry (useful for testing).
func WithRegistry(registry *schema.Registry) Option {
	return func(a *App) error {
		a.registry = registry
		return nil
	}
}
