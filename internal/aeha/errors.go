package aeha

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of encoding error that occurred
type ErrorType int

const (
	// ErrTypeValidation indicates the input cannot form a valid frame
	ErrTypeValidation ErrorType = iota
	// ErrTypeInvocation indicates a command was submitted without payloads
	ErrTypeInvocation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeInvocation:
		return "Invocation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by the encoder and the pulse generator
type Error struct {
	Type    ErrorType // Category of error
	Field   string    // Offending input (e.g., "customer_code", "bits[12]")
	Message string    // Human-readable error message
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewValidationError creates a validation error for the given input field
func NewValidationError(field, message string) *Error {
	return &Error{
		Type:    ErrTypeValidation,
		Field:   field,
		Message: message,
	}
}

// NewInvocationError creates an invocation error
func NewInvocationError(message string) *Error {
	return &Error{
		Type:    ErrTypeInvocation,
		Message: message,
	}
}

// IsValidationError checks if an error is (or wraps) a validation error
func IsValidationError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrTypeValidation
}

// IsInvocationError checks if an error is (or wraps) an invocation error
func IsInvocationError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrTypeInvocation
}
