// Package credential implements the identities drawbridge attaches to
// clients: delegated tokens minted on behalf of the signed-in user, and the
// anonymous identity used on the public proxy path.
package credential

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/datalab/drawbridge/internal/integration"
	"github.com/datalab/drawbridge/internal/log"
	"github.com/datalab/drawbridge/internal/target"
	"github.com/datalab/drawbridge/internal/ui"
	"github.com/datalab/drawbridge/internal/vault"
)

// expirySkew is subtracted from a token's expiry when deciding staleness so
// a token is never used in its final seconds.
const expirySkew = 10 * time.Second

// RefreshError indicates a delegated token could not be minted. The original
// vault error is preserved as the cause. The caller may retry; Refresh itself
// never does.
type RefreshError struct {
	Target target.Target
	Cause  error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refreshing %s access token: %v", e.Target.Service(), e.Cause)
}

func (e *RefreshError) Unwrap() error {
	return e.Cause
}

// Recorder receives refresh outcomes. Implemented by the audit store; a nil
// Recorder disables recording.
type Recorder interface {
	RecordRefresh(t target.Target, err error)
}

// Delegated is a lazily-refreshed credential bound to one target, backed by
// the token vault. The token and expiry are set together or not at all.
//
// Delegated implements oauth2.TokenSource, so an oauth2.Transport wrapped
// around it re-mints the token whenever the current one is absent or stale.
// Each client construction gets its own instance; instances are not shared.
type Delegated struct {
	target   target.Target
	vault    vault.Fetcher
	registry *integration.Registry
	recorder Recorder

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewDelegated returns an unrefreshed delegated credential for the target.
// The recorder may be nil.
func NewDelegated(t target.Target, v vault.Fetcher, reg *integration.Registry, rec Recorder) *Delegated {
	return &Delegated{target: t, vault: v, registry: reg, recorder: rec}
}

// Target returns the target this credential is bound to.
func (c *Delegated) Target() target.Target {
	return c.target
}

// Refresh mints a new token from the vault. One attempt, no internal retry.
// On failure the stored token and expiry are left untouched and a
// *RefreshError wrapping the vault error is returned, after logging and
// printing a hint that names the fix: connectivity for transport failures,
// integration settings for everything else.
func (c *Delegated) Refresh(ctx context.Context) error {
	tok, err := c.vault.AccessToken(ctx, c.target)
	if c.recorder != nil {
		c.recorder.RecordRefresh(c.target, err)
	}
	if err != nil {
		logger := log.With("target", c.target.Name())

		var connErr *vault.ConnectionError
		if errors.As(err, &connErr) {
			logger.Error("connection error refreshing access token", "error", err)
			ui.Hintf("There was a connection error trying to fetch the access token. "+
				"Please ensure internet is on in order to use the %s integration.", c.target.Service())
			return &RefreshError{Target: c.target, Cause: err}
		}

		logger.Error("error refreshing access token", "error", err)
		if !c.registry.Has(c.target) {
			logger.Error("no integration found for target")
			ui.Hintf("Please ensure you have selected a %s account in the notebook settings sidebar.",
				c.target.Service())
		}
		return &RefreshError{Target: c.target, Cause: err}
	}

	c.mu.Lock()
	c.token = tok.Value
	c.expiry = tok.Expiry
	c.mu.Unlock()
	return nil
}

// Token implements oauth2.TokenSource. It refreshes when no token is held or
// the held token is within expirySkew of expiring.
func (c *Delegated) Token() (*oauth2.Token, error) {
	c.mu.Lock()
	token, expiry := c.token, c.expiry
	c.mu.Unlock()

	if token == "" || time.Now().After(expiry.Add(-expirySkew)) {
		if err := c.Refresh(context.Background()); err != nil {
			return nil, err
		}
		c.mu.Lock()
		token, expiry = c.token, c.expiry
		c.mu.Unlock()
	}

	return &oauth2.Token{AccessToken: token, Expiry: expiry, TokenType: "Bearer"}, nil
}

// current returns the held token and expiry (for tests).
func (c *Delegated) current() (string, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token, c.expiry
}

// Anonymous is the no-identity credential used on the public proxy path.
// Refresh is a no-op and Token always succeeds with an empty token.
type Anonymous struct{}

// Refresh does nothing.
func (Anonymous) Refresh(ctx context.Context) error { return nil }

// Token implements oauth2.TokenSource with an empty, never-expiring token.
func (Anonymous) Token() (*oauth2.Token, error) {
	return &oauth2.Token{}, nil
}
