package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Configuration errors, fatal for the whole run
	ErrConfigParse        ErrorType = "CONFIG_PARSE_ERROR"
	ErrConfigInvalid      ErrorType = "CONFIG_INVALID_ERROR"
	ErrCredentialsMissing ErrorType = "CREDENTIALS_MISSING_ERROR"

	// API errors, isolated per call
	ErrRequestFailed ErrorType = "REQUEST_FAILED_ERROR"
	ErrResponseParse ErrorType = "RESPONSE_PARSE_ERROR"

	// Controller errors, isolated per instance
	ErrInstanceNotFound ErrorType = "INSTANCE_NOT_FOUND_ERROR"
)

// CustomError represents a custom error with additional context
type CustomError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	WrappedErr error
}

// New creates a new custom error
func New(errorType ErrorType, message string, context map[string]interface{}, wrappedErr error) *CustomError {
	return &CustomError{
		Type:       errorType,
		Message:    message,
		Context:    context,
		WrappedErr: wrappedErr,
	}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.WrappedErr != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.WrappedErr)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *CustomError) Unwrap() error {
	return e.WrappedErr
}

// Is checks if the error is of a specific type
func Is(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}

	if customErr, ok := err.(*CustomError); ok {
		return customErr.Type == errType
	}

	return false
}

// IsFatal reports whether the error should abort the run before any
// network call is made. Per-call and per-instance errors are not fatal.
func IsFatal(err error) bool {
	return Is(err, ErrConfigParse) || Is(err, ErrConfigInvalid) || Is(err, ErrCredentialsMissing)
}
