// Package errors provides structured error types for the ProjectArena tools.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - PARSE_*: Genome decoding failures
//   - CONFIG_*: Recipe and placement configuration failures
//   - GEOMETRY_*: Room and grid geometry violations
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeParseNumber, "expected digit at offset %d", off)
//	if errors.Is(err, errors.ErrCodeParseNumber) {
//	    // Handle malformed genome
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "failed to read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Genome parsing errors
	ErrCodeParseSyntax       Code = "PARSE_SYNTAX"
	ErrCodeParseNumber       Code = "PARSE_NUMBER"
	ErrCodeParseUnterminated Code = "PARSE_UNTERMINATED"

	// Configuration errors
	ErrCodeInvalidInput         Code = "INVALID_INPUT"
	ErrCodeInvalidRecipe        Code = "CONFIG_INVALID_RECIPE"
	ErrCodeInvalidInterval      Code = "CONFIG_INVALID_INTERVAL"
	ErrCodeNoCandidates         Code = "CONFIG_NO_CANDIDATES"
	ErrCodeTileOccupied         Code = "CONFIG_TILE_OCCUPIED"
	ErrCodeDegenerateVisibility Code = "CONFIG_DEGENERATE_VISIBILITY"

	// Geometry errors
	ErrCodeEmptyRoom   Code = "GEOMETRY_EMPTY_ROOM"
	ErrCodeOutOfBounds Code = "GEOMETRY_OUT_OF_BOUNDS"
	ErrCodeRaggedGrid  Code = "GEOMETRY_RAGGED_GRID"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeRunNotFound  Code = "RUN_NOT_FOUND"

	// Output format errors
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidView   Code = "INVALID_VIEW"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// PlacementError carries the resource kind and iteration at which a
// placement run became unsatisfiable, so callers can report exactly
// which step of a recipe failed.
type PlacementError struct {
	Kind      string // Resource kind being placed, e.g. "medkit"
	Iteration int    // Zero-based iteration within the kind
	Message   string
}

// Error implements the error interface.
func (e *PlacementError) Error() string {
	return fmt.Sprintf("placing %q (iteration %d): %s", e.Kind, e.Iteration, e.Message)
}

// Code returns the error code for this error type.
func (e *PlacementError) Code() Code {
	return ErrCodeNoCandidates
}
