package gateway

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response from a backend.  Message carries the
// server's `{"message": ...}` body when one was sent; callers surface
// it to the user with MessageOr so every operation has a safe generic
// fallback string.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: status %d", e.StatusCode)
}

// IsStatus reports whether err is (or wraps) an APIError with the
// given HTTP status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// MessageOr extracts the server-provided message from err, falling
// back to the given operation-specific string when the failure has no
// usable message (network errors, empty bodies).
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
