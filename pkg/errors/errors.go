// Package errors provides structured error types for umlpad.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code]. The render classifier uses the code to tell a missing tool apart from
// a crashed process or a timeout, and the HTTP API reports it to clients.
//
// # Error Codes
//
//   - TOOL_NOT_FOUND, RUNTIME_NOT_FOUND: bundled rendering dependencies missing
//   - SPAWN_FAILED, TIMEOUT: the rendering process could not run to completion
//   - INVALID_*: input or configuration validation failures
//   - FILE_*: open, save and export failures
//   - INTERNAL_ERROR: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeToolNotFound, "PlantUML JAR not found at: %s", path)
//	if errors.Is(err, errors.ErrCodeToolNotFound) {
//	    // short-circuit without spawning
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Missing rendering dependencies
	ErrCodeToolNotFound    Code = "TOOL_NOT_FOUND"
	ErrCodeRuntimeNotFound Code = "RUNTIME_NOT_FOUND"

	// Process-level failures
	ErrCodeSpawnFailed Code = "SPAWN_FAILED"
	ErrCodeTimeout     Code = "TIMEOUT"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// File errors
	ErrCodeFileIO       Code = "FILE_IO"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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
// For *Error types, returns the message without the code prefix, followed by
// the cause when there is one.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
