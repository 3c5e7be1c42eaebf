package server

import (
	"time"

	"github.com/agentstation/skumerge/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix    string
	MaxUploadSize int64

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Converted output is kept this long for download
	CacheTTL time.Duration

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:          constants.DefaultServerHost,
		Port:          constants.DefaultServerPort,
		PathPrefix:    "/api/v1",
		MaxUploadSize: constants.MaxUploadSize,
		CORSEnabled:   false,
		CORSOrigins:   []string{},
		CacheTTL:      constants.CacheTTL,
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   120 * time.Second,
	}
}
