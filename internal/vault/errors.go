package vault

import "fmt"

// ConnectionError indicates the vault was unreachable. This is transient and
// environmental (no internet, proxy down), distinct from the vault denying
// the request.
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("token vault unreachable: %v", e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// APIError indicates the vault was reachable but responded with an error.
// In practice this almost always means the integration is not enabled for
// this execution context.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("token vault error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("token vault error (status %d)", e.StatusCode)
}
