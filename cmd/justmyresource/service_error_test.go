// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/justmyresource/justmyresource/internal/issue"
)

func TestNewServiceError_PanicsOnNilErr(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on nil Err, got none")
		}
		msg, ok := r.(string)
		if !ok {
			t.Fatalf("expected string panic, got %T", r)
		}
		if msg != "ServiceError: Err must not be nil" {
			t.Fatalf("unexpected panic message: %s", msg)
		}
	}()

	newServiceError(nil, 0, "")
}

func TestServiceError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("underlying error")
	svcErr := newServiceError(underlying, issue.ResourceNotFoundId, "styled")

	if svcErr.Error() != "underlying error" {
		t.Errorf("Error() = %q, want %q", svcErr.Error(), "underlying error")
	}
	if !errors.Is(svcErr, underlying) {
		t.Error("errors.Is should find underlying error via Unwrap")
	}
	if svcErr.IssueID != issue.ResourceNotFoundId {
		t.Errorf("IssueID = %d, want %d", svcErr.IssueID, issue.ResourceNotFoundId)
	}
}

func TestAsServiceError(t *testing.T) {
	t.Parallel()

	t.Run("actionable error carries its issue", func(t *testing.T) {
		t.Parallel()
		err := issue.NewErrorContext().
			WithOperation("resolve resource").
			WithIssue(issue.AmbiguousPrefixId).
			Wrap(errors.New("ambiguous")).
			BuildError()
		if got := asServiceError(err).IssueID; got != issue.AmbiguousPrefixId {
			t.Errorf("IssueID = %d, want %d", got, issue.AmbiguousPrefixId)
		}
	})

	t.Run("existing service error is reused", func(t *testing.T) {
		t.Parallel()
		svcErr := newServiceError(errors.New("x"), 0, "styled")
		wrapped := &ExitError{Code: 2, Err: svcErr}
		if got := asServiceError(wrapped); got != svcErr {
			t.Errorf("asServiceError() = %p, want %p", got, svcErr)
		}
	})

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()
		if got := asServiceError(errors.New("x")).IssueID; got != 0 {
			t.Errorf("IssueID = %d, want 0", got)
		}
	})
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		renderServiceError(&buf, nil, false, "dark")
		if buf.Len() != 0 {
			t.Errorf("expected no output for nil ServiceError, got %q", buf.String())
		}
	})

	t.Run("styled message and suggestions", func(t *testing.T) {
		t.Parallel()
		err := issue.NewErrorContext().
			WithOperation("resolve resource").
			WithResource("lucide:home").
			WithSuggestion("Use the qualified name: acme-icons/lucide:home").
			Wrap(errors.New("ambiguous prefix")).
			BuildError()

		var buf bytes.Buffer
		renderServiceError(&buf, newServiceError(err, 0, "Resource not found: lucide:home\n"), false, "dark")

		out := buf.String()
		for _, want := range []string{"Resource not found: lucide:home", "Error:", "acme-icons/lucide:home"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("verbose renders the catalog page", func(t *testing.T) {
		t.Parallel()
		var quiet, verbose bytes.Buffer
		svcErr := newServiceError(errors.New("ambiguous"), issue.AmbiguousPrefixId, "")
		renderServiceError(&quiet, svcErr, false, "notty")
		renderServiceError(&verbose, svcErr, true, "notty")
		if verbose.Len() <= quiet.Len() {
			t.Errorf("verbose output (%d bytes) should include the catalog page beyond %d bytes", verbose.Len(), quiet.Len())
		}
	})
}
