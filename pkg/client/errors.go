package client

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents a non-2xx HTTP response from any of the backends.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with
// the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsAuthFailure reports whether err is an authorization failure (401) from
// any backend. Every such failure, regardless of which service produced
// it, triggers the same recovery: clear the stored credential and return
// to the sign-in view.
func IsAuthFailure(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
