// Package apperrors defines the error taxonomy shared by the gateway,
// session store and controllers.
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrUnauthorized marks any 401 response; the gateway clears the
	// session when it surfaces.
	ErrUnauthorized = errors.New("session expired, please login again")

	// ErrBackendUnreachable wraps transport-level failures.
	ErrBackendUnreachable = errors.New("backend unreachable")
)

// APIError carries the detail string the backend attached to a non-2xx
// response, together with the operation that produced it.
type APIError struct {
	// Op names the gateway operation, e.g. "login" or "create material".
	Op string
	// StatusCode is the HTTP status of the failed response.
	StatusCode int
	// Detail is the backend-provided message, or the per-operation
	// fallback when the error body could not be parsed.
	Detail string
	// Err is an optional sentinel this error maps to (ErrUnauthorized).
	Err error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
}

// Unwrap exposes the underlying sentinel for errors.Is checks.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError builds an APIError for the given operation and response status.
func NewAPIError(op string, status int, detail string) *APIError {
	return &APIError{Op: op, StatusCode: status, Detail: detail}
}

// IsUnauthorized reports whether err stems from a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// Detail extracts the user-facing message from err. APIError details are
// surfaced verbatim; everything else falls back to err.Error().
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
