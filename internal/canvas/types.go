package canvas

import (
	"errors"
	"fmt"
)

// maxErrorBody caps how much of an error response body is retained.
const maxErrorBody = 64 << 10

// APIError represents a non-2xx response from the Canvas API. The status
// code and body are preserved so callers can report exactly what the server
// said; there is no retry policy.
type APIError struct {
	// StatusCode is the HTTP status of the failed request
	StatusCode int

	// Body is the (truncated) response body, usually a Canvas JSON error
	Body string

	// Method and URL identify the failed request
	Method string
	URL    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("canvas: %s %s: %d - %s", e.Method, e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("canvas: %s %s: %d", e.Method, e.URL, e.StatusCode)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
