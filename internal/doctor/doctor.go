// Package doctor provides diagnostic output for debugging drawbridge.
package doctor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/datalab/drawbridge/internal/config"
	"github.com/datalab/drawbridge/internal/integration"
	"github.com/datalab/drawbridge/internal/target"
	"github.com/datalab/drawbridge/internal/vault"
)

// Section represents a diagnostic section that can be printed.
type Section interface {
	// Name returns the section name (e.g., "Token Vault").
	Name() string

	// Print outputs the section's diagnostic information to the writer.
	Print(w io.Writer) error
}

// Registry holds all registered doctor sections.
type Registry struct {
	sections []Section
}

// NewRegistry creates a new doctor section registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a section to the registry.
func (r *Registry) Register(s Section) {
	r.sections = append(r.sections, s)
}

// Sections returns all registered sections.
func (r *Registry) Sections() []Section {
	return r.sections
}

// FlowsSection reports which broker flows the environment configures.
type FlowsSection struct {
	Cfg *config.Config
}

func (s *FlowsSection) Name() string { return "Flows" }

func (s *FlowsSection) Print(w io.Writer) error {
	fmt.Fprintf(w, "public data proxy: %s\n", configured(s.Cfg.ProxyEnabled()))
	fmt.Fprintf(w, "delegated user tokens: %s\n", configured(s.Cfg.UserTokenPresent()))
	return nil
}

// IntegrationsSection lists the enabled integrations per target.
type IntegrationsSection struct {
	Registry *integration.Registry
}

func (s *IntegrationsSection) Name() string { return "Integrations" }

func (s *IntegrationsSection) Print(w io.Writer) error {
	for _, tgt := range target.All() {
		state := "disabled"
		if s.Registry.Has(tgt) {
			state = "enabled"
		}
		fmt.Fprintf(w, "%s: %s\n", tgt.Service(), state)
	}
	return nil
}

// vaultTimeout bounds each per-target token-mint probe.
const vaultTimeout = 5 * time.Second

// VaultSection probes the token vault by minting a token for each enabled
// integration.
type VaultSection struct {
	Vault    vault.Fetcher
	Registry *integration.Registry
	Enabled  bool // whether the user-token flow is configured at all
}

func (s *VaultSection) Name() string { return "Token Vault" }

func (s *VaultSection) Print(w io.Writer) error {
	if !s.Enabled {
		fmt.Fprintln(w, "delegated flow not configured; skipping vault probes")
		return nil
	}
	targets := s.Registry.Enabled()
	if len(targets) == 0 {
		fmt.Fprintln(w, "no integrations enabled; nothing to probe")
		return nil
	}
	for _, tgt := range targets {
		ctx, cancel := context.WithTimeout(context.Background(), vaultTimeout)
		tok, err := s.Vault.AccessToken(ctx, tgt)
		cancel()
		if err != nil {
			fmt.Fprintf(w, "%s: mint failed: %v\n", tgt.Service(), err)
			continue
		}
		fmt.Fprintf(w, "%s: token minted, expires in %s\n",
			tgt.Service(), time.Until(tok.Expiry).Round(time.Second))
	}
	return nil
}

func configured(on bool) string {
	if on {
		return "configured"
	}
	return "not configured"
}
