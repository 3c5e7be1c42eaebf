package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/skumerge/pkg/constants"
	"github.com/agentstation/skumerge/pkg/errors"
	"github.com/agentstation/skumerge/pkg/transform"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = constants.EnvPrefix

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Pipeline configuration
	MinFiles   int
	SchemaFile string
	OutputDir  string
	Transform  transform.Options

	// Server configuration
	Server ServerConfig

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// ServerConfig holds the serve command defaults.
type ServerConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	CORS     bool          `mapstructure:"cors"`
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (SKUMERGE_*)
// 3. .env files
// 4. Config file (~/.skumerge.yaml or ./.skumerge.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.ConfigFileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit file that cannot be read is an error; a missing default is not.
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "failed to read config file", err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		MinFiles:   v.GetInt("min_files"),
		SchemaFile: v.GetString("schema_file"),
		OutputDir:  v.GetString("output_dir"),
		Transform: transform.Options{
			Template:           v.GetString("template"),
			CleanHTML:          v.GetBool("clean_html"),
			NormalizePrices:    v.GetBool("normalize_prices"),
			ConvertGramWeights: v.GetBool("convert_gram_weights"),
			DefaultType:        v.GetString("default_type"),
			DefaultCategory:    v.GetString("default_category"),
		},

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if err := v.UnmarshalKey("server", &config.Server); err != nil {
		return nil, errors.NewConfigError("server", "invalid server settings", err)
	}
	if err := v.UnmarshalKey("mapping", &config.Transform.Mapping); err != nil {
		return nil, errors.NewConfigError("mapping", "invalid mapping", err)
	}
	for _, out := range v.GetStringSlice("disabled") {
		if config.Transform.Disabled == nil {
			config.Transform.Disabled = make(map[string]bool)
		}
		config.Transform.Disabled[out] = true
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that would otherwise fail later inside a command.
func (c *Config) Validate() error {
	if c.MinFiles < 1 {
		return errors.NewConfigError("min_files", "must be at least 1", nil)
	}
	if err := c.Transform.Validate(); err != nil {
		return errors.WrapConfig("transform", err)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

func setDefaults(v *viper.Viper) {
	defaults := transform.DefaultOptions()

	v.SetDefault("min_files", constants.MinSourceFiles)
	v.SetDefault("output_dir", ".")
	v.SetDefault("template", defaults.Template)
	v.SetDefault("clean_html", defaults.CleanHTML)
	v.SetDefault("normalize_prices", defaults.NormalizePrices)
	v.SetDefault("convert_gram_weights", defaults.ConvertGramWeights)
	v.SetDefault("default_type", defaults.DefaultType)
	v.SetDefault("default_category", defaults.DefaultCategory)

	v.SetDefault("server.host", constants.DefaultServerHost)
	v.SetDefault("server.port", constants.DefaultServerPort)
	v.SetDefault("server.cache_ttl", constants.CacheTTL)
	v.SetDefault("server.cors", false)

	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		// godotenv.Load never overwrites variables that are already set,
		// so the first file loaded wins.
		_ = godotenv.Load(envFile)
	}
}
