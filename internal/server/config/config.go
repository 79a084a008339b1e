// Package config handles configuration for the gateway, including defaults,
// environment overlay, and command-line flags.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the authgate server.
//
// Fields:
//   - EndpointAddr: bind address for the public HTTP endpoint.
//   - DirectoryURL: base URL of the user directory's query endpoint.
//   - DirectoryAdminSecret: shared secret presented to the directory.
//   - DirectoryTimeout: per-request deadline for directory calls.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - TokenValidityDuration: session token lifetime.
//
// DirectoryURL, DirectoryAdminSecret and SecretKey must come from the
// environment; startup fails when any of them is absent. They are never
// logged and the struct is treated as read-only once loaded.
type Config struct {
	EndpointAddr          string        `env:"ENDPOINT_ADDR"`
	DirectoryURL          string        `env:"DIRECTORY_URL"`
	DirectoryAdminSecret  string        `env:"DIRECTORY_ADMIN_SECRET"`
	DirectoryTimeout      time.Duration `env:"DIRECTORY_TIMEOUT"`
	SecretKey             string        `env:"JWT_SECRET"`
	TokenValidityDuration time.Duration `env:"TOKEN_VALIDITY_DURATION"`
}

// LoadDefaults populates Config with development defaults. Secrets have no
// default on purpose.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8000"
	c.DirectoryTimeout = 5 * time.Second
	c.TokenValidityDuration = 24 * time.Hour
}

// Validate reports the first required setting that is missing.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"DIRECTORY_URL", c.DirectoryURL},
		{"DIRECTORY_ADMIN_SECRET", c.DirectoryAdminSecret},
		{"JWT_SECRET", c.SecretKey},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing required setting %s", r.name)
		}
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment and finally from command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
