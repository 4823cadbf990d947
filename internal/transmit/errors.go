package transmit

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of transmission error that occurred
type ErrorType int

const (
	// ErrTypeInvocation indicates Send was called without payloads
	ErrTypeInvocation ErrorType = iota
	// ErrTypeEncode indicates a payload could not be encoded
	ErrTypeEncode
	// ErrTypePeripheral indicates the peripheral rejected a frame
	ErrTypePeripheral
	// ErrTypeTimeout indicates the peripheral never reported completion
	ErrTypeTimeout
	// ErrTypeCanceled indicates the context was canceled mid-transmission
	ErrTypeCanceled
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeInvocation:
		return "Invocation Error"
	case ErrTypeEncode:
		return "Encode Error"
	case ErrTypePeripheral:
		return "Peripheral Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is returned by Driver
type Error struct {
	Type    ErrorType // Category of error
	Frame   int       // Index of the frame being sent (-1 if none)
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Frame >= 0 {
		msg = fmt.Sprintf("frame %d: %s", e.Frame, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNoPayloads is the cause of every invocation error
var ErrNoPayloads = errors.New("no payloads to send")

func newError(typ ErrorType, frame int, message string, err error) *Error {
	return &Error{
		Type:    typ,
		Frame:   frame,
		Message: message,
		Err:     err,
	}
}

func isType(err error, typ ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == typ
}

// IsInvocationError checks if an error is an invocation error
func IsInvocationError(err error) bool {
	return isType(err, ErrTypeInvocation)
}

// IsEncodeError checks if an error is an encode error
func IsEncodeError(err error) bool {
	return isType(err, ErrTypeEncode)
}

// IsPeripheralError checks if an error is a peripheral error
func IsPeripheralError(err error) bool {
	return isType(err, ErrTypePeripheral)
}

// IsTimeoutError checks if an error is a completion timeout
func IsTimeoutError(err error) bool {
	return isType(err, ErrTypeTimeout)
}

// IsCanceled checks if an error is a cancellation
func IsCanceled(err error) bool {
	return isType(err, ErrTypeCanceled)
}
