// Package routing decides, per client construction, which identity and
// transport a client should use: the shared public proxy with anonymous
// access, a delegated credential minted for the signed-in user, or
// credentials the caller supplied explicitly.
package routing

import (
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"github.com/datalab/drawbridge/internal/config"
	"github.com/datalab/drawbridge/internal/credential"
	"github.com/datalab/drawbridge/internal/integration"
	"github.com/datalab/drawbridge/internal/log"
	"github.com/datalab/drawbridge/internal/target"
	"github.com/datalab/drawbridge/internal/transport"
	"github.com/datalab/drawbridge/internal/ui"
	"github.com/datalab/drawbridge/internal/vault"
)

// Mode identifies which identity and transport a client uses.
type Mode int

const (
	// ModePublicProxy routes through the shared data proxy anonymously.
	ModePublicProxy Mode = iota
	// ModeDelegated authenticates with a token minted for the user.
	ModeDelegated
	// ModePassthrough uses credentials the caller supplied, untouched.
	ModePassthrough
)

func (m Mode) String() string {
	switch m {
	case ModePublicProxy:
		return "public-proxy"
	case ModeDelegated:
		return "delegated"
	case ModePassthrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// Options are the caller-supplied client construction arguments. All fields
// are optional; the zero value asks the broker to decide everything.
type Options struct {
	// Project is an explicit project id. Takes precedence over the
	// environment default.
	Project string
	// Credentials, when set, are used unchanged.
	Credentials oauth2.TokenSource
	// Transport, when set, replaces the default underlying transport on the
	// authenticated paths.
	Transport http.RoundTripper
}

// Decision is the outcome of one routing decision.
type Decision struct {
	Mode        Mode
	Project     string
	Credentials oauth2.TokenSource
	Transport   http.RoundTripper
}

// Recorder receives routing and refresh events. *audit.Store implements it;
// a nil Recorder disables recording.
type Recorder interface {
	RecordDecision(tgt target.Target, mode, project string)
	RecordRefresh(tgt target.Target, err error)
}

// Factory makes routing decisions and constructs clients. The registry is
// read-only after construction and the pre-bound credential map is guarded by
// a mutex, so a Factory is safe for concurrent use.
type Factory struct {
	cfg      *config.Config
	registry *integration.Registry
	vault    vault.Fetcher
	recorder Recorder

	mu    sync.Mutex
	bound map[target.Target]*credential.Delegated
}

// NewFactory builds a factory. The recorder may be nil.
func NewFactory(cfg *config.Config, reg *integration.Registry, v vault.Fetcher, rec Recorder) *Factory {
	return &Factory{cfg: cfg, registry: reg, vault: v, recorder: rec}
}

// Registry returns the factory's integration registry.
func (f *Factory) Registry() *integration.Registry {
	return f.registry
}

// Preload binds a delegated credential to tgt ahead of first use, so
// interactive frontends share one credential (and its minted token) instead
// of re-minting per call. Idempotent: repeated calls return the same
// instance.
func (f *Factory) Preload(tgt target.Target) *credential.Delegated {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bound == nil {
		f.bound = make(map[target.Target]*credential.Delegated)
	}
	c, ok := f.bound[tgt]
	if !ok {
		c = credential.NewDelegated(tgt, f.vault, f.registry, f.recorder)
		f.bound[tgt] = c
	}
	return c
}

// Delegated returns the pre-bound delegated credential for tgt when Preload
// registered one, and a fresh credential otherwise. Used by interactive
// frontends that need the user's identity without a full client.
func (f *Factory) Delegated(tgt target.Target) *credential.Delegated {
	f.mu.Lock()
	c := f.bound[tgt]
	f.mu.Unlock()
	if c != nil {
		return c
	}
	return credential.NewDelegated(tgt, f.vault, f.registry, f.recorder)
}

// Decide picks the identity and transport for a client of the given target.
//
// It never fails: missing project or credentials degrade to best-effort
// construction with hints, and the actual failure (if any) surfaces at the
// first network call as a credential.RefreshError or *googleapi.Error.
func (f *Factory) Decide(tgt target.Target, opts Options) Decision {
	project := opts.Project
	if project != "" {
		log.Info("explicit project set", "project", project)
	} else {
		project = f.cfg.Project
	}

	if project == "" && opts.Credentials == nil && !f.registry.Has(tgt) {
		log.Info("using public integration", "target", tgt.Name())
		ui.Hintf("Using the public %s integration.", tgt.Service())
		d := Decision{
			Mode:        ModePublicProxy,
			Project:     f.cfg.ProxyProject,
			Credentials: credential.Anonymous{},
			Transport:   transport.NewProxy(tgt, f.cfg),
		}
		f.record(tgt, d)
		return d
	}

	mode := ModePassthrough
	creds := opts.Credentials
	if creds == nil {
		mode = ModeDelegated
		log.Info("no credentials specified, using delegated credentials", "target", tgt.Name())
		creds = credential.NewDelegated(tgt, f.vault, f.registry, f.recorder)
		if !f.registry.Has(tgt) {
			log.Info("no integration found, creating client anyway", "target", tgt.Name())
			ui.Warnf("Please ensure you have selected a %s account in the notebook settings sidebar.",
				tgt.Service())
		}
	}
	if project == "" {
		log.Info("no project specified for authenticated client", "target", tgt.Name())
		ui.Warnf("Please ensure you specify a project id when creating the client "+
			"in order to use your %s account.", tgt.Service())
	}

	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	d := Decision{
		Mode:        mode,
		Project:     project,
		Credentials: creds,
		// oauth2.Transport asks the source for a token before each request,
		// which is what triggers the lazy refresh on the delegated path.
		Transport: &oauth2.Transport{Source: creds, Base: base},
	}
	f.record(tgt, d)
	return d
}

func (f *Factory) record(tgt target.Target, d Decision) {
	if f.recorder != nil {
		f.recorder.RecordDecision(tgt, d.Mode.String(), d.Project)
	}
}

// NewClient runs the routing decision and constructs a client with the
// resolved {project, credentials, transport}.
func (f *Factory) NewClient(tgt target.Target, opts Options) *Client {
	d := f.Decide(tgt, opts)
	return &Client{
		Project:  d.Project,
		Mode:     d.Mode,
		hc:       &http.Client{Transport: d.Transport},
		endpoint: endpoint(d),
	}
}

// endpoint picks the base URL requests are issued against. The public path
// goes through the data proxy; authenticated paths hit the service directly.
func endpoint(d Decision) string {
	if p, ok := d.Transport.(*transport.Proxy); ok {
		return p.BaseURL()
	}
	return ""
}
