package prokerala

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes attached to APIError.
const (
	ErrCodeAuth        = "AUTH_FAILED"
	ErrCodeRequest     = "REQUEST_FAILED"
	ErrCodeDecode      = "DECODE_FAILED"
	ErrCodeCircuitOpen = "CIRCUIT_OPEN"
)

// APIError is returned for any failure while talking to the Prokerala API.
type APIError struct {
	Code       string
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("prokerala: %s: %s", e.Code, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// IsBlocked reports whether err signals that the current credential is
// rate-limited or blocked upstream. A typed error carrying HTTP 403 is the
// authoritative signal; the textual fallback catches wrapped transport
// errors that only mention the status in their message.
func IsBlocked(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return apiErr.StatusCode == 403
	}
	return strings.Contains(err.Error(), "403")
}
