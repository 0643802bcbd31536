package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypePrecondition
	ErrorTypeValidation
	ErrorTypeForge
	ErrorTypeNetwork
	ErrorTypeNotFound
	ErrorTypeConflict
	ErrorTypeCancelled
	ErrorTypeTransient
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypePrecondition:
		return "PRECONDITION"
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypeForge:
		return "FORGE"
	case ErrorTypeNetwork:
		return "NETWORK"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeConflict:
		return "CONFLICT"
	case ErrorTypeCancelled:
		return "CANCELLED"
	case ErrorTypeTransient:
		return "TRANSIENT"
	default:
		return "UNKNOWN"
	}
}

// ConsoleError represents an error with type, context and retry information
type ConsoleError struct {
	Type      ErrorType         `json:"type"`
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Cause     error             `json:"cause,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
	Retryable bool              `json:"retryable"`
}

// Error implements the error interface
func (e *ConsoleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *ConsoleError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair to the error
func (e *ConsoleError) WithContext(key, value string) *ConsoleError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// New creates a new ConsoleError
func New(errType ErrorType, code, message string) *ConsoleError {
	return &ConsoleError{
		Type:      errType,
		Code:      code,
		Message:   message,
		Retryable: errType == ErrorTypeNetwork || errType == ErrorTypeTransient,
	}
}

// Wrap wraps an existing error with type and message
func Wrap(errType ErrorType, code, message string, cause error) *ConsoleError {
	e := New(errType, code, message)
	e.Cause = cause
	return e
}

// Precondition creates a precondition failure detected before any network call
func Precondition(code, message string) *ConsoleError {
	return New(ErrorTypePrecondition, code, message)
}

// Validation creates a validation failure checked before the first network effect
func Validation(code, message string) *ConsoleError {
	return New(ErrorTypeValidation, code, message)
}

// IsType reports whether err is a ConsoleError of the given type
func IsType(err error, errType ErrorType) bool {
	var ce *ConsoleError
	if errors.As(err, &ce) {
		return ce.Type == errType
	}
	return false
}

// IsRetryable reports whether a failed step may safely be re-run
func IsRetryable(err error) bool {
	var ce *ConsoleError
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}
