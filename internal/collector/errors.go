package collector

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorType represents the category of error that occurred during a fetch.
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeServer     ErrorType = "server"
	ErrorTypeClient     ErrorType = "client"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// ErrNoData is returned when a provider answers successfully but has no bars.
var ErrNoData = errors.New("no data returned")

// FetchError is a structured error from a provider request.
type FetchError struct {
	Type       ErrorType
	Retryable  bool
	StatusCode int
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a network error.
func NewNetworkError(cause error) *FetchError {
	return &FetchError{Type: ErrorTypeNetwork, Retryable: true, Message: "network request failed", Cause: cause}
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(cause error) *FetchError {
	return &FetchError{Type: ErrorTypeTimeout, Retryable: true, Message: "request timed out", Cause: cause}
}

// NewValidationError creates an error for a response that decoded but is unusable.
func NewValidationError(message string, cause error) *FetchError {
	return &FetchError{Type: ErrorTypeValidation, Message: message, Cause: cause}
}

// ClassifyHTTPError maps a non-success status code to a FetchError.
func ClassifyHTTPError(statusCode int) *FetchError {
	switch {
	case statusCode == 429:
		return &FetchError{Type: ErrorTypeRateLimit, Retryable: true, StatusCode: statusCode, Message: "rate limit exceeded"}
	case statusCode >= 500:
		return &FetchError{Type: ErrorTypeServer, Retryable: true, StatusCode: statusCode, Message: "server returned an error"}
	case statusCode >= 400:
		return &FetchError{Type: ErrorTypeClient, StatusCode: statusCode, Message: fmt.Sprintf("client error: HTTP %d", statusCode)}
	default:
		return &FetchError{Type: ErrorTypeUnknown, StatusCode: statusCode, Message: fmt.Sprintf("unexpected status code: %d", statusCode)}
	}
}

// classifyTransportError wraps an error returned before any response arrived.
func classifyTransportError(err error) *FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return NewTimeoutError(err)
	}
	return NewNetworkError(err)
}
