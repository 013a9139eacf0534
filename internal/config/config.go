// Package config loads the broker's process-wide configuration.
//
// The hosting platform provisions everything through environment variables.
// A ~/.drawbridge/config.yaml is honored for local development, but the
// environment always wins since it is what the platform controls.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variable names set by the hosting platform.
const (
	EnvIntegrations = "DRAWBRIDGE_INTEGRATIONS"
	EnvProxyURL     = "DRAWBRIDGE_DATA_PROXY_URL"
	EnvProxyToken   = "DRAWBRIDGE_DATA_PROXY_TOKEN"
	EnvProxyProject = "DRAWBRIDGE_DATA_PROXY_PROJECT"
	EnvSecretsURL   = "DRAWBRIDGE_SECRETS_URL"
	EnvSecretsToken = "DRAWBRIDGE_SECRETS_TOKEN"
	EnvProject      = "GOOGLE_CLOUD_PROJECT"
	EnvAuditDB      = "DRAWBRIDGE_AUDIT_DB"
)

// Config holds the broker's configuration, read once at process start.
type Config struct {
	// Integrations is the raw colon-separated list of enabled integration
	// names (e.g. "bigquery:gcs"). Parsed by internal/integration.
	Integrations string `yaml:"integrations"`

	// ProxyURL is the base URL of the shared data proxy.
	ProxyURL string `yaml:"proxy_url"`
	// ProxyToken is the static capability token attached to every proxied
	// request. It identifies the execution context, not the user.
	ProxyToken string `yaml:"proxy_token"`
	// ProxyProject is the project id the public proxy serves.
	ProxyProject string `yaml:"proxy_project"`

	// SecretsURL is the base URL of the token vault.
	SecretsURL string `yaml:"secrets_url"`
	// SecretsToken is the signed-in user's vault JWT.
	SecretsToken string `yaml:"secrets_token"`

	// Project is the default project id, from GOOGLE_CLOUD_PROJECT.
	Project string `yaml:"project"`

	// AuditDB is an optional path to the SQLite audit database. Empty
	// disables audit recording.
	AuditDB string `yaml:"audit_db"`
}

// Load reads ~/.drawbridge/config.yaml if present, then applies environment
// overrides. It never fails on a missing or malformed file.
func Load() *Config {
	cfg := &Config{}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".drawbridge", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, cfg) // Ignore unmarshal errors, use env
		}
	}

	overrides := map[string]*string{
		EnvIntegrations: &cfg.Integrations,
		EnvProxyURL:     &cfg.ProxyURL,
		EnvProxyToken:   &cfg.ProxyToken,
		EnvProxyProject: &cfg.ProxyProject,
		EnvSecretsURL:   &cfg.SecretsURL,
		EnvSecretsToken: &cfg.SecretsToken,
		EnvProject:      &cfg.Project,
		EnvAuditDB:      &cfg.AuditDB,
	}
	for name, field := range overrides {
		if v, ok := os.LookupEnv(name); ok {
			*field = v
		}
	}

	return cfg
}

// ProxyEnabled reports whether the public data proxy flow is configured.
func (c *Config) ProxyEnabled() bool {
	return c.ProxyToken != ""
}

// UserTokenPresent reports whether the delegated-token flow is configured.
func (c *Config) UserTokenPresent() bool {
	return c.SecretsToken != ""
}
