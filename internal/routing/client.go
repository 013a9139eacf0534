package routing

import (
	"net/http"

	"google.golang.org/api/googleapi"
)

// Client is the minimal downstream client shape the broker constructs: a
// resolved project id plus an HTTP client whose transport carries the chosen
// identity. Real service client libraries consume the same
// {project, credentials, transport} triple from the Decision directly.
type Client struct {
	// Project is the resolved project id ("" when none could be resolved).
	Project string
	// Mode records which routing path constructed this client.
	Mode Mode

	endpoint string
	hc       *http.Client
}

// Endpoint returns the base URL requests should target when the routing mode
// pins one (the public proxy). Empty means the service's own endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Do issues the request through the routed transport. Non-2xx responses are
// converted into *googleapi.Error, so a permission-denied response surfaces
// as an error with Code 403 — after any transport-level hint has been
// printed, and never swallowed.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	if err := googleapi.CheckResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}
