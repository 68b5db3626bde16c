// Package config provides environment-driven configuration for the
// ingestion core. A .env file in the working directory is loaded first when
// present, then real environment variables win.
package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Graph store backends.
const (
	GraphStorePostgres = "postgres"
	GraphStoreSQLite   = "sqlite"
)

// Config holds all configuration values of the ingestion core.
type Config struct {
	DatabaseURL   Secret
	GraphStore    string
	GraphDBPath   string
	BaseNamespace string
	LogLevel      string
}

// Load reads configuration from environment variables with sensible
// defaults.
func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // a missing .env file is fine.

	cfg := &Config{
		DatabaseURL:   Secret(envOrDefault("DATABASE_URL", "")),
		GraphStore:    envOrDefault("GRAPH_STORE", GraphStorePostgres),
		GraphDBPath:   envOrDefault("GRAPH_DB_PATH", "graphmint.db"),
		BaseNamespace: envOrDefault("BASE_NAMESPACE", ""),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.GraphStore {
	case GraphStorePostgres, GraphStoreSQLite:
	default:
		return fmt.Errorf("GRAPH_STORE must be %q or %q", GraphStorePostgres, GraphStoreSQLite)
	}

	if c.GraphStore == GraphStorePostgres || c.DatabaseURL != "" {
		if err := validateDatabaseURL(c.DatabaseURL.Value()); err != nil {
			return err
		}
	}

	if c.BaseNamespace != "" {
		u, err := url.Parse(c.BaseNamespace)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("BASE_NAMESPACE must be an absolute URI")
		}
	}

	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error")
	}

	return nil
}

func validateDatabaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL must use the postgres scheme")
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
