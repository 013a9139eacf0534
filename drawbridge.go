// Package drawbridge lets hosted notebook code reach cloud data services
// without handling credentials. Init reads the environment the platform
// provisions, builds the routing factory, and installs it as the
// process-wide default; NewClient then brokers every client construction.
package drawbridge

import (
	"golang.org/x/oauth2"

	"github.com/datalab/drawbridge/internal/audit"
	"github.com/datalab/drawbridge/internal/config"
	"github.com/datalab/drawbridge/internal/integration"
	"github.com/datalab/drawbridge/internal/log"
	"github.com/datalab/drawbridge/internal/routing"
	"github.com/datalab/drawbridge/internal/target"
	"github.com/datalab/drawbridge/internal/vault"
)

// Targets re-exported for callers constructing clients.
const (
	BigQuery = target.BigQuery
	GCS      = target.GCS
	AutoML   = target.AutoML
)

// Options re-exported for callers constructing clients.
type Options = routing.Options

// Init builds the broker from the environment and installs it as the
// process-wide default. Calling Init again returns the already-installed
// factory; initialization never stacks.
//
// It returns nil when neither the proxy flow nor the user-token flow is
// configured — outside the hosted environment there is nothing to broker and
// callers should construct clients directly.
func Init() *routing.Factory {
	if f := routing.Default(); f != nil {
		return f
	}

	cfg := config.Load()
	if !cfg.ProxyEnabled() && !cfg.UserTokenPresent() {
		log.Debug("no proxy or user token configured; broker disabled")
		return nil
	}

	reg := integration.Parse(cfg.Integrations)

	var rec routing.Recorder
	if cfg.AuditDB != "" {
		store, err := audit.Open(cfg.AuditDB)
		if err != nil {
			log.Error("opening audit store", "path", cfg.AuditDB, "error", err)
		} else {
			rec = store
		}
	}

	f := routing.NewFactory(cfg, reg, vault.NewClient(cfg), rec)
	if !routing.Install(f) {
		// Lost the race to a concurrent Init; use the winner.
		return routing.Default()
	}
	if reg.HasBigQuery() {
		// Interactive frontends (query magics) share one pre-bound credential
		// so successive uses reuse the minted token instead of re-minting.
		f.Preload(target.BigQuery)
		log.Debug("bigquery integration enabled; pre-bound delegated credentials for magics")
	}
	return f
}

// NewClient constructs a brokered client for the target, initializing the
// broker on first use. Returns nil when the broker is disabled.
func NewClient(tgt target.Target, opts Options) *routing.Client {
	f := Init()
	if f == nil {
		return nil
	}
	return f.NewClient(tgt, opts)
}

// Credentials returns a delegated token source bound to the target, for
// interactive frontends (query magics) that need the signed-in user's
// identity without a full client. Returns nil when the broker is disabled.
func Credentials(tgt target.Target) oauth2.TokenSource {
	f := Init()
	if f == nil {
		return nil
	}
	return f.Delegated(tgt)
}
