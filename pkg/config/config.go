package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/smartslot/smartslot/pkg/observability"
)

// Mode identifies the runtime mode the process was started in
type Mode string

const (
	// ModeDevelopment enables development-only operations such as
	// resetting the audit log.
	ModeDevelopment Mode = "development"

	// ModeProduction is the default mode.
	ModeProduction Mode = "production"
)

// Valid reports whether the mode is a known runtime mode
func (m Mode) Valid() bool {
	return m == ModeDevelopment || m == ModeProduction
}

// Config holds all application configuration
type Config struct {
	// Runtime mode; the audit store refuses destructive operations
	// outside ModeDevelopment.
	Mode Mode

	// Observability configuration
	Observability ObservabilityConfig
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Mode: Mode(strings.ToLower(getEnv("SMARTSLOT_MODE", string(ModeProduction)))),
		Observability: ObservabilityConfig{
			LogLevel:       observability.ParseLogLevel(getEnv("SMARTSLOT_LOG_LEVEL", "info")),
			MetricsEnabled: getEnvBool("SMARTSLOT_METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("invalid runtime mode: %s (must be development or production)", c.Mode)
	}
	return nil
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns the environment variable as a bool or a default
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	value = strings.ToLower(value)
	return value == "true" || value == "1"
}
