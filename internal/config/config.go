// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendGoogle = "google"
)

// Transport names.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all server settings. Every field can be set through the
// environment with the CALMCP_ prefix (e.g. CALMCP_BACKEND=google).
type Config struct {
	Transport string `envconfig:"TRANSPORT" default:"stdio"`
	Listen    string `envconfig:"LISTEN" default:":8080"`
	Backend   string `envconfig:"BACKEND" default:"memory"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL"`
	TokenFile          string `envconfig:"TOKEN_FILE"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads a .env file when present, then the environment.
func Load() (Config, error) {
	// Missing .env is not an error; the environment alone is enough.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("calmcp", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enum fields and cross-field requirements.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown transport %q (want %q or %q)", c.Transport, TransportStdio, TransportHTTP)
	}

	switch c.Backend {
	case BackendMemory:
	case BackendGoogle:
		if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
			return fmt.Errorf("google backend requires CALMCP_GOOGLE_CLIENT_ID and CALMCP_GOOGLE_CLIENT_SECRET")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendMemory, BackendGoogle)
	}

	return nil
}
