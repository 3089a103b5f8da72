// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "success", value: ExitSuccess, wantValid: true},
		{name: "not found", value: ExitNotFound, wantValid: true},
		{name: "interrupted", value: ExitInterrupted, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if tt.wantValid {
				if err != nil {
					t.Errorf("ExitCode(%d).Validate() = %v, want nil", tt.value, err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("ExitCode(%d).Validate() = %v, want ErrInvalidExitCode", tt.value, err)
			}
		})
	}
}

func TestExitCodePredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code        ExitCode
		wantSuccess bool
		wantMissing bool
		wantString  string
	}{
		{ExitSuccess, true, false, "0"},
		{ExitFailure, false, false, "1"},
		{ExitNotFound, false, true, "2"},
		{ExitInterrupted, false, false, "130"},
	}

	for _, tt := range tests {
		t.Run(tt.wantString, func(t *testing.T) {
			t.Parallel()

			if got := tt.code.IsSuccess(); got != tt.wantSuccess {
				t.Errorf("ExitCode(%d).IsSuccess() = %v, want %v", tt.code, got, tt.wantSuccess)
			}
			if got := tt.code.IsNotFound(); got != tt.wantMissing {
				t.Errorf("ExitCode(%d).IsNotFound() = %v, want %v", tt.code, got, tt.wantMissing)
			}
			if got := tt.code.String(); got != tt.wantString {
				t.Errorf("ExitCode(%d).String() = %q, want %q", tt.code, got, tt.wantString)
			}
		})
	}
}
