package schedule

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned when the scheduling service responds with a
// non-success status. The engine treats every such response uniformly as a
// failed operation; the status code is kept so callers can distinguish
// session expiry and prompt re-authentication.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scheduling service error (status %d): %s", e.StatusCode, e.Body)
}

// AuthFailure reports whether the error indicates an expired or invalid
// session.
func (e *APIError) AuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsAuthError reports whether err is a scheduling service auth failure.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.AuthFailure()
}
