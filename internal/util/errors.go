package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types for the fanout CLI
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLaunchFailed indicates the shell could not be started
	ErrLaunchFailed = errors.New("command launch error")

	// ErrTimeout indicates a command did not finish before its deadline
	ErrTimeout = errors.New("execution timeout")

	// ErrCanceled indicates the run was interrupted before a command finished
	ErrCanceled = errors.New("execution canceled")

	// ErrShutdown indicates the worker pool no longer accepts tasks
	ErrShutdown = errors.New("worker pool shut down")
)

// HostError wraps an error with the hostname it belongs to
type HostError struct {
	Host string
	Err  error
}

// Error implements the error interface
func (e *HostError) Error() string {
	return fmt.Sprintf("host %q: %v", e.Host, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *HostError) Unwrap() error {
	return e.Err
}

// WrapHostError wraps an error with host context
func WrapHostError(host string, err error) error {
	if err == nil {
		return nil
	}
	return &HostError{
		Host: host,
		Err:  err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 {
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// ValidationError represents a configuration field that failed validation.
// It always matches ErrInvalidConfig under errors.Is.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// Unwrap ties every validation failure to ErrInvalidConfig
func (v *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsLaunchError checks if an error is a shell launch error
func IsLaunchError(err error) bool {
	return errors.Is(err, ErrLaunchFailed)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsConfigError(err):
		return "Invalid configuration. Please check your config file and command-line flags."
	case IsTimeout(err):
		return "Command timed out. Increase timeoutMs in the config or pass --timeout-ms."
	case IsCanceled(err):
		return "Run was interrupted."
	case IsLaunchError(err):
		return "The shell could not be started. Check that sh (or cmd on Windows) is on PATH."
	case errors.Is(err, ErrShutdown):
		return "The worker pool was shut down before the command was admitted."
	default:
		return err.Error()
	}
}

// Causes returns the chain of errors wrapped by err, outermost first.
// A joined error ends the chain with each of its members.
func Causes(err error) []error {
	var causes []error
	for err != nil {
		switch x := err.(type) {
		case interface{ Unwrap() []error }:
			return append(causes, x.Unwrap()...)
		case interface{ Unwrap() error }:
			err = x.Unwrap()
			if err != nil {
				causes = append(causes, err)
			}
		default:
			return causes
		}
	}
	return causes
}

// CombineErrors combines multiple errors into a single error
// Returns nil if all errors are nil
func CombineErrors(errs ...error) error {
	m := &MultiError{}
	for _, err := range errs {
		m.Add(err)
	}
	return m.ErrorOrNil()
}
