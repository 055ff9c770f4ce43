// Package errors provides structured error types for keycapgen.
//
// This package defines error codes and types that enable:
//   - Telling per-variant failures apart from faults that end a run
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The generation taxonomy is recoverable at variant granularity:
//   - PARAMETER_NOT_FOUND: no template parameter matches a prefix
//   - PARAMETER_ASSIGN_ERROR: the host rejected a value
//   - COPY_CREATION_FAILED: the registry returned no copy
//   - UNKNOWN_ROW: warning only, the default row profile was used
//
// Every other code is fatal to a run.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParameterNotFound, "no parameter starting with %q", prefix)
//	if errors.Recoverable(err) {
//	    // report and continue with the next variant
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRegistryUnavailable, origErr, "recompute variant %d", i)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Generation taxonomy
	ErrCodeParameterNotFound  Code = "PARAMETER_NOT_FOUND"
	ErrCodeParameterAssign    Code = "PARAMETER_ASSIGN_ERROR"
	ErrCodeCopyCreationFailed Code = "COPY_CREATION_FAILED"
	ErrCodeUnknownRow         Code = "UNKNOWN_ROW"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Registry errors
	ErrCodeRegistryUnavailable Code = "REGISTRY_UNAVAILABLE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Recoverable reports whether err belongs to the per-variant taxonomy.
// A generator reports these and moves on; anything else ends the run.
func Recoverable(err error) bool {
	switch GetCode(err) {
	case ErrCodeParameterNotFound, ErrCodeParameterAssign, ErrCodeCopyCreationFailed, ErrCodeUnknownRow:
		return true
	}
	return false
}
