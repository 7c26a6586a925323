package config

import (
	"fmt"
	"time"

	"github.com/shopwire/content-engine/internal/imageproxy"
)

// Default configuration values.
const (
	defaultServiceName     = "content-engine"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8090
	defaultDBPath          = "./data/database.sqlite"
	defaultDBBusyTimeout   = 5 * time.Second
	defaultRetryAttempts   = 3
	defaultRetryDelay      = 1 * time.Second
	defaultLogLevel        = "info"
	defaultFetchLimit      = 200
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds all configuration for the content engine service.
type Config struct {
	Service  ServiceConfig     `yaml:"service"`
	Database DatabaseConfig    `yaml:"database"`
	Logging  LoggingConfig     `yaml:"logging"`
	Resolver ResolverConfig    `yaml:"resolver"`
	Images   imageproxy.Config `yaml:"images"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `env:"CONTENT_ENGINE_PORT" yaml:"port"`
	Debug           bool          `env:"APP_DEBUG"           yaml:"debug"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds the sqlite read-path configuration.
type DatabaseConfig struct {
	Path              string        `env:"DATABASE_PATH" yaml:"path"`
	BusyTimeout       time.Duration `yaml:"busy_timeout"`
	RetryMaxAttempts  int           `yaml:"retry_max_attempts"`
	RetryInitialDelay time.Duration `yaml:"retry_initial_delay"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string   `env:"LOG_LEVEL" yaml:"level"`
	Development bool     `yaml:"development"`
	OutputPaths []string `yaml:"output_paths"`
}

// ResolverConfig holds resolution engine tuning.
type ResolverConfig struct {
	// FetchLimit caps the rows one tier pulls from storage.
	FetchLimit int `yaml:"fetch_limit"`
}

// SetDefaults applies default values to unset fields.
func (c *Config) SetDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = defaultServiceName
	}
	if c.Service.Version == "" {
		c.Service.Version = defaultServiceVersion
	}
	if c.Service.Port == 0 {
		c.Service.Port = defaultServicePort
	}
	if c.Service.ShutdownTimeout == 0 {
		c.Service.ShutdownTimeout = defaultShutdownTimeout
	}

	if c.Database.Path == "" {
		c.Database.Path = defaultDBPath
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaultDBBusyTimeout
	}
	if c.Database.RetryMaxAttempts == 0 {
		c.Database.RetryMaxAttempts = defaultRetryAttempts
	}
	if c.Database.RetryInitialDelay == 0 {
		c.Database.RetryInitialDelay = defaultRetryDelay
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	if c.Resolver.FetchLimit == 0 {
		c.Resolver.FetchLimit = defaultFetchLimit
	}

	c.Images.SetDefaults()
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid service port: %d", c.Service.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Resolver.FetchLimit < 0 {
		return fmt.Errorf("resolver fetch_limit must be positive")
	}
	return nil
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
