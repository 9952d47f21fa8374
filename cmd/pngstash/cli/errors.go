// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies command errors for the exit code.
type ErrorCategory string

const (
	// CategoryValidation: bad arguments, flags or configuration.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: the file or chunk named does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryInternal: I/O failures and anything unexpected.
	CategoryInternal ErrorCategory = "internal"
)

// Process exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// CommandError is a categorized error returned by a command. It wraps
// the underlying error so errors.Is and errors.As still see it.
type CommandError struct {
	Category ErrorCategory
	Err      error

	// Hint is an optional second line suggesting a fix.
	Hint string
}

func (e *CommandError) Error() string { return e.Err.Error() }

func (e *CommandError) Unwrap() error { return e.Err }

// WithHint attaches a hint and returns e.
func (e *CommandError) WithHint(hint string) *CommandError {
	e.Hint = hint
	return e
}

// Validation creates an error for bad input.
func Validation(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates an error for a missing file or chunk.
func NotFound(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Internal creates an error for an unexpected failure.
func Internal(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// ErrorExitCode picks the process exit code for err: the code of an
// [ExitError], ExitUsage for validation errors, ExitFailure otherwise.
func ErrorExitCode(err error) int {
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	var command *CommandError
	if errors.As(err, &command) && command.Category == CategoryValidation {
		return ExitUsage
	}
	return ExitFailure
}

// ErrorHint returns the hint attached anywhere in err's chain.
func ErrorHint(err error) string {
	var command *CommandError
	if errors.As(err, &command) {
		return command.Hint
	}
	return ""
}
