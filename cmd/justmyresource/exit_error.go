// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/justmyresource/justmyresource/pkg/types"
)

// ExitError carries a justmyresource exit status out of a command handler:
// types.ExitNotFound (2) when a query cannot be resolved or its pack has no
// such resource, types.ExitFailure (1) for any other failure.
//
// An ExitError without Err has already been reported, usually as the
// {"found": false} JSON document on stdout, and is not rendered again.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// reported returns an ExitError for a failure the handler already printed.
func reported(code types.ExitCode) *ExitError {
	return &ExitError{Code: code}
}

// Reported reports whether the failure was already shown to the user.
func (e *ExitError) Reported() bool { return e.Err == nil }

// Error returns the wrapped error's message, or a description of the code.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	switch e.Code {
	case types.ExitNotFound:
		return fmt.Sprintf("resource not found (exit status %d)", e.Code)
	case types.ExitInterrupted:
		return fmt.Sprintf("interrupted (exit status %d)", e.Code)
	default:
		return fmt.Sprintf("exit status %d", e.Code)
	}
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
