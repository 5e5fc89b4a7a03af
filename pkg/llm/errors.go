package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrorType classifies transport failures for retry decisions and metrics.
type ErrorType int8

const (
	// ErrorTypeTimeout represents a call that exceeded the wall-clock bound.
	ErrorTypeTimeout ErrorType = iota
	// ErrorTypeTransport represents any other failure surfaced by the
	// transport: connection errors, API errors, malformed responses, panics.
	ErrorTypeTransport
	// ErrorTypeCanceled represents a call aborted by the caller's context.
	ErrorTypeCanceled
)

// String returns the string representation of the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeTransport:
		return "transport"
	case ErrorTypeCanceled:
		return "canceled"
	default:
		return "invalid"
	}
}

// Error is a classified LLM call failure.
type Error struct {
	Type    ErrorType
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// NewError creates a classified error with a formatted message.
func NewError(errorType ErrorType, format string, args ...any) *Error {
	return &Error{
		Type:    errorType,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError creates a classified error around an underlying cause.
func WrapError(errorType ErrorType, err error, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Wrapped: err,
	}
}

// TypeOf extracts the classification from err, defaulting to transport for
// unclassified errors and mapping context errors to their own types.
func TypeOf(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrorTypeCanceled
	}
	return ErrorTypeTransport
}

// IsTimeout reports whether err is classified as a timeout.
func IsTimeout(err error) bool {
	return TypeOf(err) == ErrorTypeTimeout
}

// ExhaustedError is the terminal failure after all retry attempts.
// It carries what the bot needs to record as the episode's last error.
type ExhaustedError struct {
	Prompt   string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("llm call failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}
