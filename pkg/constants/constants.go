// Package constants provides shared constants used throughout the skumerge codebase.
// This includes file permissions, conversion factors, limits and default
// values that should be consistent across the CLI, the engine and the server.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Pipeline constants
const (
	// MinSourceFiles is the number of source exports required before a merge can run
	MinSourceFiles = 2

	// GramsPerPound converts gram-authored weights to pounds
	GramsPerPound = 453.592

	// WeightPrecision is the number of decimals kept after weight conversion
	WeightPrecision = 2

	// MaxUploadSize bounds a single multipart upload to the HTTP API (32 MB)
	MaxUploadSize = 32 << 20
)

// Output defaults
const (
	// OutputFilePrefix prefixes every generated import file name
	OutputFilePrefix = "odoo_products_merged_"

	// OutputFileExt is the extension of generated import files
	OutputFileExt = ".csv"

	// DefaultTemplate is the output template used when none is chosen
	DefaultTemplate = "standard"

	// DefaultProductType is the Odoo product type written when a record has none
	DefaultProductType = "product"

	// DefaultUnitOfMeasure is the Odoo unit of measure written when a record has none
	DefaultUnitOfMeasure = "Units"

	// DefaultTracking is the Odoo inventory tracking mode written when a record has none
	DefaultTracking = "none"

	// BoolTrue and BoolFalse are the literal tokens Odoo accepts for flag columns
	BoolTrue  = "TRUE"
	BoolFalse = "FALSE"
)

// Server constants
const (
	// DefaultServerPort is the port the HTTP API listens on by default
	DefaultServerPort = 8080

	// DefaultServerHost is the address the HTTP API binds to by default
	DefaultServerHost = "localhost"

	// CacheTTL is the default time-to-live for converted output artifacts
	CacheTTL = 15 * time.Minute

	// ShutdownTimeout bounds graceful HTTP shutdown
	ShutdownTimeout = 5 * time.Second

	// ChannelBufferSize is the default buffer size for event channels
	ChannelBufferSize = 256
)

// Logging constants
const (
	// LogRotationSizeMB is the maximum size of a log file before rotation
	LogRotationSizeMB = 10

	// LogRotationAgeDays is the maximum age of log files before deletion
	LogRotationAgeDays = 7

	// LogRotationBackups is the maximum number of old log files to retain
	LogRotationBackups = 5
)

// Path constants
const (
	// ConfigFileName is the base name of the optional config file
	ConfigFileName = ".skumerge"

	// EnvPrefix prefixes environment variables read by viper
	EnvPrefix = "SKUMERGE"
)
