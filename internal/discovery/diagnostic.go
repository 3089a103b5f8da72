// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"

	"github.com/justmyresource/justmyresource/pkg/resolve"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a pack that could not be loaded. Discovery
	// still succeeds without it.
	SeverityError Severity = "error"
)

const (
	CodeSearchPathUnavailable DiagnosticCode = "search_path_unavailable"
	CodePackLoadFailed        DiagnosticCode = "pack_load_failed"
	CodeInvalidManifest       DiagnosticCode = "invalid_manifest"
	CodeMissingField          DiagnosticCode = "missing_field"
	CodeDuplicatePack         DiagnosticCode = "duplicate_pack"
	CodeInvalidID             DiagnosticCode = "invalid_id"
	CodeUnusableAlias         DiagnosticCode = "unusable_alias"
	CodePrefixCollision       DiagnosticCode = "prefix_collision"
	CodeUnknownOverride       DiagnosticCode = "unknown_override"
	CodeConfigLoadFailed      DiagnosticCode = "config_load_failed"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// DiagnosticCode is a machine-readable diagnostic identifier.
	DiagnosticCode string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "pack_load_failed").
		Code DiagnosticCode
		// Message is the human-readable description.
		Message string
		// Path is the file or directory associated with this diagnostic (optional).
		Path string
		// QualifiedID is the pack the diagnostic is about (optional).
		QualifiedID resolve.QualifiedID
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// String returns the string representation of the Severity.
func (s Severity) String() string { return string(s) }

// String returns the string representation of the DiagnosticCode.
func (c DiagnosticCode) String() string { return string(c) }

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	if d.Path != "" {
		return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, d.Path, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
}

// FromWarnings converts snapshot build warnings into diagnostics.
func FromWarnings(warnings []resolve.Warning) []Diagnostic {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]Diagnostic, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, Diagnostic{
			Severity:    SeverityWarning,
			Code:        DiagnosticCode(w.Code),
			Message:     w.Message,
			QualifiedID: w.QualifiedID,
		})
	}
	return out
}
