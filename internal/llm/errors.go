package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// UpstreamError reports a transport-level failure talking to the provider:
// a non-success status, a network failure, or an envelope that could not be
// decoded.
type UpstreamError struct {
	Provider string

	// StatusCode is the HTTP status returned by the provider, or 0 when the
	// request never got a response.
	StatusCode int

	// Message is the provider's error message, if it sent one.
	Message string

	// RetryAfter is the provider's requested back-off, if any.
	RetryAfter time.Duration

	Err error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s upstream error: %d %s", e.Provider, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s upstream error: %d %s", e.Provider, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("%s upstream error: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s upstream error", e.Provider)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt may succeed: network failures,
// rate limits and server-side errors. Client errors (bad key, bad request)
// and cancellations are final.
func (e *UpstreamError) Retryable() bool {
	if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
		return false
	}
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

func upstream(provider string, status int, message string, err error) *UpstreamError {
	return &UpstreamError{Provider: provider, StatusCode: status, Message: message, Err: err}
}
