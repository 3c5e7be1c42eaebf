package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/skumerge/pkg/schema"
	"github.com/agentstation/skumerge/pkg/session"
	"github.com/agentstation/skumerge/pkg/transform"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
type Mock struct {
	RegistryFunc         func() (*schema.Registry, error)
	NewSessionFunc       func(...session.Option) (*session.Session, error)
	TransformOptionsFunc func() transform.Options
	OutputDirFunc        func() string
	LoggerFunc           func() *zerolog.Logger
	OutputFormatFunc     func() string
	VersionFunc          func() string
}

// Registry returns the mock registry or the built-in one.
func (m *Mock) Registry() (*schema.Registry, error) {
	if m.RegistryFunc != nil {
		return m.RegistryFunc()
	}
	return schema.Default(), nil
}

// NewSession returns the mock session or a quiet default session.
func (m *Mock) NewSession(opts ...session.Option) (*session.Session, error) {
	if m.NewSessionFunc != nil {
		return m.NewSessionFunc(opts...)
	}
	return session.New(append([]session.Option{session.WithLogger(m.Logger())}, opts...)...)
}

// TransformOptions returns the mock options or the defaults.
func (m *Mock) TransformOptions() transform.Options {
	if m.TransformOptionsFunc != nil {
		return m.TransformOptionsFunc()
	}
	return transform.DefaultOptions()
}

// OutputDir returns the mock directory or ".".
func (m *Mock) OutputDir() string {
	if m.OutputDirFunc != nil {
		return m.OutputDirFunc()
	}
	return "."
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the mock format or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

var _ Interface = (*Mock)(nil)
