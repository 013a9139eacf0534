// Package transport provides the HTTP transport for the shared data proxy
// path, where requests authenticate as the platform's service identity
// instead of the user.
package transport

import (
	"net/http"

	"github.com/datalab/drawbridge/internal/config"
	"github.com/datalab/drawbridge/internal/log"
	"github.com/datalab/drawbridge/internal/target"
	"github.com/datalab/drawbridge/internal/ui"
)

// ProxyHeader carries the proxy capability token on every proxied request.
const ProxyHeader = "X-Drawbridge-Proxy-Data"

// Proxy is an http.RoundTripper that routes requests through the shared data
// proxy. The capability token is fixed at construction; it is a static
// context identifier, not a short-lived credential, and is never refreshed.
type Proxy struct {
	target  target.Target
	baseURL string
	token   string
	base    http.RoundTripper
}

// NewProxy builds the proxy transport for a target from configuration.
func NewProxy(t target.Target, cfg *config.Config) *Proxy {
	return &Proxy{
		target:  t,
		baseURL: cfg.ProxyURL,
		token:   cfg.ProxyToken,
		base:    http.DefaultTransport,
	}
}

// SetBase overrides the underlying transport (for testing).
func (p *Proxy) SetBase(rt http.RoundTripper) {
	p.base = rt
}

// BaseURL returns the proxy's base URL for request construction.
func (p *Proxy) BaseURL() string {
	return p.baseURL
}

// RoundTrip attaches the proxy header and delegates to the underlying
// transport. A 403 response triggers a hint that the user may have meant to
// use an authenticated account; the response itself passes through unchanged
// so callers still observe the failure.
func (p *Proxy) RoundTrip(req *http.Request) (*http.Response, error) {
	// Per the RoundTripper contract the request must not be mutated.
	clone := req.Clone(req.Context())
	clone.Header.Set(ProxyHeader, p.token)

	resp, err := p.base.RoundTrip(clone)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusForbidden {
		msg := "Permission denied using the public " + p.target.Service() + " integration. " +
			"Did you mean to select a " + p.target.Service() + " account in the notebook settings sidebar?"
		ui.Hint(msg)
		log.Info("permission denied on public data proxy", "target", p.target.Name())
	}
	return resp, nil
}
