package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/rollbook/rollbook/internal/logger"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// EnvPrefix prefixes every environment variable rollbook reads.
const EnvPrefix = "ROLLBOOK"

// Config holds all runtime configuration for rollbook.
type Config struct {
	DBPath        string
	SchemaVersion int
	SchoolFile    string
	LogLevel      string
	LogFormat     string
}

// Load reads configuration from viper, which merges flag values, env vars,
// and defaults (set up by the cobra command in cmd/rollbook).
func Load() Config {
	return Config{
		DBPath:        viper.GetString("db_path"),
		SchemaVersion: viper.GetInt("schema_version"),
		SchoolFile:    viper.GetString("school_file"),
		LogLevel:      viper.GetString("log_level"),
		LogFormat:     viper.GetString("log_format"),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if c.SchemaVersion < 1 {
		return fmt.Errorf("schema_version must be at least 1, got %d", c.SchemaVersion)
	}
	switch c.LogFormat {
	case logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("log_format must be %q or %q, got %q", logger.FormatConsole, logger.FormatJSON, c.LogFormat)
	}
	return nil
}
