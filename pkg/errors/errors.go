// Package errors provides structured error types for asmscope.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] that places it in one of the error classes of the collation
// pipeline:
//
//   - REFERENTIAL: an edge, group or candidate names an unknown node
//   - EMPTY_INPUT: a statistic was requested over no data
//   - MALFORMED_CANDIDATE: a bubble candidate has fewer than two members
//   - CORRUPT_LAYOUT: the layout engine returned unusable output
//   - COLLABORATOR: an external process or engine failed to run
//   - INVALID_INPUT: an input file or configuration could not be used
//
// MALFORMED_CANDIDATE is the only recoverable class: the classifier skips the
// candidate and continues. Everything else aborts the run before any
// component is persisted.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeReferential, "edge %s -> %s: unknown target", a, b)
//	if errors.Is(err, errors.ErrCodeReferential) {
//	    // abort the run
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCollaborator, origErr, "run spqr")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the collation pipeline.
const (
	ErrCodeReferential        Code = "REFERENTIAL"
	ErrCodeEmptyInput         Code = "EMPTY_INPUT"
	ErrCodeMalformedCandidate Code = "MALFORMED_CANDIDATE"
	ErrCodeCorruptLayout      Code = "CORRUPT_LAYOUT"
	ErrCodeCollaborator       Code = "COLLABORATOR"
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInternal           Code = "INTERNAL_ERROR"
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

// Is reports whether any *Error in err's chain carries the given code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the chain contains no *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Fatal reports whether err must abort the run. Only malformed bubble
// candidates are recoverable; a nil error is not fatal.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	return GetCode(err) != ErrCodeMalformedCandidate
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
