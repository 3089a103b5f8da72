// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/justmyresource/justmyresource/internal/config"
	"github.com/justmyresource/justmyresource/pkg/resolve"
	"github.com/justmyresource/justmyresource/pkg/resource"
	"github.com/justmyresource/justmyresource/pkg/types"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	ambiguous := &resolve.AmbiguousPrefixError{
		Query:     "lucide:home",
		Prefix:    "lucide",
		Claimants: []resolve.QualifiedID{"acme-icons/lucide", "cool-icons/lucide"},
	}

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"nil", nil, types.ExitSuccess},
		{"plain error", errors.New("boom"), types.ExitFailure},
		{"explicit exit error", &ExitError{Code: types.ExitNotFound}, types.ExitNotFound},
		{"wrapped exit error", fmt.Errorf("outer: %w", &ExitError{Code: 7}), 7},
		{"cancelled", fmt.Errorf("discover: %w", context.Canceled), types.ExitInterrupted},
		{"ambiguous prefix", ambiguous, types.ExitNotFound},
		{"unknown prefix", &resolve.UnknownPrefixError{Query: "nope:x", Prefix: "nope"}, types.ExitNotFound},
		{"missing resource", &resource.NotFoundError{Pack: "acme-icons/lucide", Name: "nope"}, types.ExitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name         string
		err          *ExitError
		wantMsg      string
		wantReported bool
	}{
		{"reported not found", reported(types.ExitNotFound), "resource not found (exit status 2)", true},
		{"reported interrupted", reported(types.ExitInterrupted), "interrupted (exit status 130)", true},
		{"reported failure", reported(types.ExitFailure), "exit status 1", true},
		{"wrapped", &ExitError{Code: types.ExitFailure, Err: boom}, "boom", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Reported(); got != tt.wantReported {
				t.Errorf("Reported() = %v, want %v", got, tt.wantReported)
			}
			if exitCodeFor(tt.err) != tt.err.Code {
				t.Errorf("exitCodeFor() = %v, want %v", exitCodeFor(tt.err), tt.err.Code)
			}
		})
	}

	if !errors.Is(&ExitError{Code: types.ExitFailure, Err: boom}, boom) {
		t.Error("ExitError does not unwrap to its cause")
	}
}

func TestGlamourStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *config.Config
		want string
	}{
		{"nil config", nil, "auto"},
		{"auto", &config.Config{UI: config.UIConfig{ColorScheme: config.ColorSchemeAuto}}, "auto"},
		{"dark", &config.Config{UI: config.UIConfig{ColorScheme: config.ColorSchemeDark}}, "dark"},
		{"light", &config.Config{UI: config.UIConfig{ColorScheme: config.ColorSchemeLight}}, "light"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := glamourStyle(tt.cfg); got != tt.want {
				t.Errorf("glamourStyle() = %q, want %q", got, tt.want)
			}
		})
	}
}
