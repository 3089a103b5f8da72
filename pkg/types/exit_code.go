// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared by the CLI and its tests.
package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess means the command did what was asked.
	ExitSuccess ExitCode = 0
	// ExitFailure covers usage errors, unreadable configuration, and I/O failures.
	ExitFailure ExitCode = 1
	// ExitNotFound means the query could not be resolved or the pack has no
	// such resource.
	ExitNotFound ExitCode = 2
	// ExitInterrupted is reported after SIGINT, following the shell convention
	// of 128 + signal number.
	ExitInterrupted ExitCode = 130
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// IsNotFound reports whether the code signals an unresolvable query or a
// missing resource.
func (c ExitCode) IsNotFound() bool { return c == ExitNotFound }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
