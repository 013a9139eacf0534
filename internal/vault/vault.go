// Package vault fetches short-lived delegated access tokens from the
// platform's token vault on behalf of the signed-in user.
package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/datalab/drawbridge/internal/config"
	"github.com/datalab/drawbridge/internal/target"
)

// Token is a minted delegated access token and its expiration.
type Token struct {
	Value  string
	Expiry time.Time
}

// Fetcher is the vault capability consumed by the credential layer.
type Fetcher interface {
	AccessToken(ctx context.Context, t target.Target) (Token, error)
}

// Client talks to the token vault over HTTP, authenticated by the user's
// vault JWT. Concurrent fetches for the same target are collapsed into one
// request.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
	group   singleflight.Group
}

// NewClient builds a vault client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.SecretsURL,
		token:   cfg.SecretsToken,
		hc:      http.DefaultClient,
	}
}

// SetHTTPClient overrides the HTTP client (for testing).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.hc = hc
}

type tokenRequest struct {
	Target string `json:"target"`
}

type tokenResponse struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// AccessToken mints a delegated token scoped to the given target. It returns
// a *ConnectionError when the vault is unreachable and an *APIError when the
// vault responds with a non-success status.
func (c *Client) AccessToken(ctx context.Context, t target.Target) (Token, error) {
	v, err, _ := c.group.Do(t.Name(), func() (any, error) {
		return c.fetch(ctx, t)
	})
	if err != nil {
		return Token{}, err
	}
	return v.(Token), nil
}

func (c *Client) fetch(ctx context.Context, t target.Target) (Token, error) {
	body, err := json.Marshal(tokenRequest{Target: t.Name()})
	if err != nil {
		return Token{}, err
	}

	url := c.baseURL + "/api/v1/access-token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Token{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return Token{}, &ConnectionError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var eresp errorResponse
		if data, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
			if json.Unmarshal(data, &eresp) == nil {
				apiErr.Message = eresp.Message
			}
		}
		return Token{}, apiErr
	}

	var tresp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tresp); err != nil {
		return Token{}, fmt.Errorf("decoding vault response: %w", err)
	}
	if tresp.Token == "" {
		return Token{}, &APIError{StatusCode: resp.StatusCode, Message: "vault returned an empty token"}
	}
	return Token{Value: tresp.Token, Expiry: tresp.Expiry}, nil
}
