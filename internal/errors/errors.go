package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess         = 0   // Indicates successful execution.
	ExitErrorGeneric    = 1   // Indicates a generic error.
	ExitErrorTimeout    = 2   // Indicates the operation timed out.
	ExitErrorValidation = 3   // Indicates the selection was incomplete.
	ExitErrorConfig     = 4   // Indicates a configuration error.
	ExitErrorTransport  = 5   // Indicates the analysis service could not be reached or answered badly.
	ExitErrorCanceled   = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
//
// It is recovered locally: a job that fails validation performs no network
// activity and the Message is shown inline to the user.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
// When no field is set, the bare message is returned.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// TransportError reports a failed primary request: either a non-2xx status
// (StatusCode and Body are set) or a network failure (Cause is set).
type TransportError struct {
	// StatusCode is the HTTP status returned by the service, 0 on network failure.
	StatusCode int
	// Body is the raw response body, kept verbatim for diagnosis.
	Body string
	// Cause is the underlying network error, if any.
	Cause error
}

// Error returns a message that carries the status and raw body when available.
func (e TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP error! status: %d, body: %s", e.StatusCode, e.Body)
	}
	if e.Cause != nil {
		return fmt.Sprintf("request failed: %v", e.Cause)
	}
	return "request failed"
}

// Unwrap returns the underlying network error.
func (e TransportError) Unwrap() error { return e.Cause }

// PayloadError reports a response that arrived but cannot be used: the body
// does not match any known response shape, or it embeds an error string.
type PayloadError struct {
	// Embedded is the error string the service placed in the payload, if any.
	Embedded string
	// Body is the raw response body.
	Body string
	// Cause is the decoding error, if any.
	Cause error
}

// Error returns the embedded error verbatim, or a decoding message.
func (e PayloadError) Error() string {
	if e.Embedded != "" {
		return e.Embedded
	}
	if e.Cause != nil {
		return fmt.Sprintf("malformed response: %v", e.Cause)
	}
	return "malformed response"
}

// Unwrap returns the decoding error.
func (e PayloadError) Unwrap() error { return e.Cause }

// EventParseError reports a single progress event that could not be parsed.
// It is dropped by the progress source and never surfaced to the user.
type EventParseError struct {
	// Data is the raw event payload.
	Data string
	// Cause is the parsing error.
	Cause error
}

// Error returns a message that quotes the offending payload.
func (e EventParseError) Error() string {
	return fmt.Sprintf("invalid progress event %q: %v", e.Data, e.Cause)
}

// Unwrap returns the parsing error.
func (e EventParseError) Unwrap() error { return e.Cause }

// TimeoutError represents an operation timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code that reports it.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		validationErr ValidationError
		configErr     ConfigError
		transportErr  TransportError
		payloadErr    PayloadError
		timeoutErr    TimeoutError
	)
	switch {
	case errors.As(err, &validationErr):
		return ExitErrorValidation
	case errors.As(err, &configErr):
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &transportErr), errors.As(err, &payloadErr):
		return ExitErrorTransport
	}
	return ExitErrorGeneric
}
