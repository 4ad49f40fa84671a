// Package config loads and validates the library's runtime configuration with
// precedence ENV > file > defaults.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Service       ServiceConfig       `mapstructure:"service"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Query         QueryConfig         `mapstructure:"query"`
}

// ServiceConfig identifies the embedding service.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig holds the document store connection settings.
type DatabaseConfig struct {
	URL              string        `mapstructure:"url"`
	DatabaseName     string        `mapstructure:"database_name"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// QueryConfig holds engine-wide query defaults.
type QueryConfig struct {
	// DefaultLimit is the page size used when neither the request nor the
	// entity configuration specifies one. Pass it to the engine through
	// query.WithDefaultLimit.
	DefaultLimit int `mapstructure:"default_limit"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        "caseflow",
			Environment: "development",
		},
		Database: DatabaseConfig{
			ConnectTimeout:   5 * time.Second,
			OperationTimeout: 5 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
		Query: QueryConfig{
			DefaultLimit: 10,
		},
	}
}
