package config

import "testing"

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvIntegrations, "bigquery:gcs")
	t.Setenv(EnvProxyURL, "https://proxy.example.com")
	t.Setenv(EnvProxyToken, "cap-token")
	t.Setenv(EnvProxyProject, "shared-datasets")
	t.Setenv(EnvSecretsURL, "https://vault.example.com")
	t.Setenv(EnvSecretsToken, "user-jwt")
	t.Setenv(EnvProject, "my-project")

	cfg := Load()
	if cfg.Integrations != "bigquery:gcs" {
		t.Errorf("Integrations = %q", cfg.Integrations)
	}
	if cfg.ProxyURL != "https://proxy.example.com" || cfg.ProxyToken != "cap-token" {
		t.Errorf("proxy config = %q/%q", cfg.ProxyURL, cfg.ProxyToken)
	}
	if cfg.ProxyProject != "shared-datasets" {
		t.Errorf("ProxyProject = %q", cfg.ProxyProject)
	}
	if cfg.Project != "my-project" {
		t.Errorf("Project = %q", cfg.Project)
	}
	if !cfg.ProxyEnabled() {
		t.Error("ProxyEnabled should be true when the proxy token is set")
	}
	if !cfg.UserTokenPresent() {
		t.Error("UserTokenPresent should be true when the vault JWT is set")
	}
}

func TestPresenceFlags(t *testing.T) {
	t.Setenv(EnvProxyToken, "")
	t.Setenv(EnvSecretsToken, "")

	cfg := &Config{}
	if cfg.ProxyEnabled() {
		t.Error("ProxyEnabled should be false with no proxy token")
	}
	if cfg.UserTokenPresent() {
		t.Error("UserTokenPresent should be false with no vault JWT")
	}
}
