// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies a command failure so that scripts and
// callers can tell bad input from a missing task or a broken disk
// without parsing the message.
type ErrorCategory string

const (
	// CategoryValidation is bad input: a malformed date, a missing
	// flag, the wrong number of arguments.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound is a reference to a task id that does not
	// exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryConflict is an operation that collides with existing
	// state, such as an import carrying duplicate ids.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryInternal is everything else: I/O failures and data the
	// tracker itself wrote that no longer decodes.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized command error. It wraps the underlying
// error so errors.Is and errors.As see through it.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is a follow-up suggestion printed after the message.
	Hint string
}

// Error returns the message, followed by the hint when there is one.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a CategoryValidation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a CategoryNotFound error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a CategoryConflict error.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Internal creates a CategoryInternal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
