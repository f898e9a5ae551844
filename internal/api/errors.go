package api

import "fmt"

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Status, e.StatusText)
}

// AuthError reports rejected credentials or a missing, invalid or expired session.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// ErrNotLoggedIn is returned by calls that need a session when there is none.
var ErrNotLoggedIn = &AuthError{Reason: "not logged in"}
