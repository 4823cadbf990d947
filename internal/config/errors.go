package config

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteNotFound is returned when a named remote is not in the registry
	ErrRemoteNotFound = errors.New("remote not found")
	// ErrCommandNotFound is returned when a remote has no command of that name
	ErrCommandNotFound = errors.New("command not found")
)

// LookupError reports a registry lookup failure
type LookupError struct {
	Kind string // "remote" or "command"
	Name string
	Err  error
}

// Error implements the error interface
func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q not found in config", e.Kind, e.Name)
}

// Unwrap returns ErrRemoteNotFound or ErrCommandNotFound
func (e *LookupError) Unwrap() error {
	return e.Err
}

// ValidationError reports one invalid field of the registry
type ValidationError struct {
	Field   string // Dotted path, e.g. remotes.aircon.commands.power.payloads[0]
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
