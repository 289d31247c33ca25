// Package derrors provides custom error types for clangx.
// Each type carries a stable code so that hosts driving clangx over the
// serve protocol can branch on the failure kind without string matching.
package derrors

import (
	"errors"
	"fmt"
	"time"
)

// ClangxError is the base interface for all clangx errors
type ClangxError interface {
	error
	// Code returns a unique error code for programmatic error handling
	Code() string
}

// baseError provides common functionality for all clangx errors
type baseError struct {
	code    string
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Code() string {
	return e.code
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ConfigurationError represents errors in clangx settings or project options files
type ConfigurationError struct {
	baseError
	Path string
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(path string, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		baseError: baseError{
			code:    "CONFIG_ERROR",
			message: message,
			cause:   cause,
		},
		Path: path,
	}
}

// ExecutionError represents errors while spawning or running the compiler
type ExecutionError struct {
	baseError
	Command string
}

// NewExecutionError creates a new execution error
func NewExecutionError(command string, message string, cause error) *ExecutionError {
	return &ExecutionError{
		baseError: baseError{
			code:    "EXEC_ERROR",
			message: message,
			cause:   cause,
		},
		Command: command,
	}
}

// TimeoutError is returned when the compiler did not finish in time and was killed
type TimeoutError struct {
	baseError
	Command string
	Timeout time.Duration
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(command string, timeout time.Duration, cause error) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			code:    "TIMEOUT",
			message: fmt.Sprintf("%s did not finish within %v", command, timeout),
			cause:   cause,
		},
		Command: command,
		Timeout: timeout,
	}
}

// ValidationError represents errors during validation
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a new validation error
func NewValidationError(field string, message string, cause error) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			code:    "VALIDATION_ERROR",
			message: message,
			cause:   cause,
		},
		Field: field,
	}
}

// NotFoundError represents errors when a resource is not found
type NotFoundError struct {
	baseError
	Resource string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, message string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			code:    "NOT_FOUND",
			message: message,
			cause:   nil,
		},
		Resource: resource,
	}
}

// Code returns the code of the first ClangxError in err's chain, or
// "UNKNOWN" when there is none.
func Code(err error) string {
	var ce ClangxError
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return "UNKNOWN"
}

// IsTimeout reports whether err wraps a TimeoutError
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsNotFound reports whether err wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
