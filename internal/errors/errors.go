package errors

import (
	"errors"
)

// Sentinel errors for different categories
var (
	// ErrNotFound - resource not found (unknown tool, unknown circuit, missing image)
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput - invalid input (malformed tool arguments, empty query)
	ErrInvalidInput = errors.New("invalid input")

	// ErrThrottled - backend signalled rate limiting; retried with backoff up to a bounded count
	ErrThrottled = errors.New("throttled")

	// ErrUnavailable - backend or provider unreachable; never retried by callers
	ErrUnavailable = errors.New("unavailable")

	// ErrTransient - transient error (timeouts, connection resets)
	ErrTransient = errors.New("transient error")

	// ErrInvalidModelOutput - model returned malformed structured output
	ErrInvalidModelOutput = errors.New("invalid model output")

	// ErrInternal - internal error
	ErrInternal = errors.New("internal error")
)
