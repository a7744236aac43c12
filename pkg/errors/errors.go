// Package errors provides structured error types for streamcapture.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the optimizer, driver, cache, and
//     ledger packages
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidArgument, "graph has no nodes")
//	if errors.Is(err, errors.ErrCodeInvalidArgument) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDriverFailure, origErr, "begin capture on stream %d", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// ErrCodeInvalidArgument marks a caller-supplied value that fails
	// validation before any driver call is made: an empty/duplicate node
	// ID, an edge to an unknown node, a non-positive stream count.
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"

	// ErrCodeDriverFailure marks a failure surfaced by a DriverOps call:
	// BeginCapture, EndCapture, RecordEvent, or StreamWaitEvent returning
	// a non-nil error.
	ErrCodeDriverFailure Code = "DRIVER_FAILURE"

	// ErrCodeInvariantViolation marks a condition a strategy expects to
	// be impossible given a validated, acyclic graph.
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"

	// ErrCodeNotFound marks a cache or ledger lookup that found nothing
	// for the given key.
	ErrCodeNotFound Code = "NOT_FOUND"

	// ErrCodeUnavailable marks a backend (cache, ledger) that could not
	// be reached at all, as distinct from a well-formed miss.
	ErrCodeUnavailable Code = "UNAVAILABLE"

	// ErrCodeTimeout marks a context deadline exceeded while waiting on a
	// driver, cache, or ledger call.
	ErrCodeTimeout Code = "TIMEOUT"

	// ErrCodeInternal marks an unexpected internal error not otherwise
	// classified.
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
