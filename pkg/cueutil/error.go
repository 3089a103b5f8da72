// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrValidation is the sentinel error wrapped by ValidationError.
var ErrValidation = errors.New("schema validation failed")

type (
	// Issue is one problem found in a document.
	Issue struct {
		// Path is the field path in JSON-path notation (e.g. "aliases[1]").
		// Empty for syntax errors.
		Path string
		// Message is the validation message without the path prefix.
		Message string
	}

	// ValidationError lists every problem CUE reported for one file.
	ValidationError struct {
		FilePath string
		Issues   []Issue
		cause    error
	}
)

// Error implements the error interface.
//
// Format: <file>: <path>: <message>, with one indented line per issue when
// there is more than one.
func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		if is.Path != "" {
			lines[i] = is.Path + ": " + is.Message
		} else {
			lines[i] = is.Message
		}
	}
	switch len(lines) {
	case 0:
		return fmt.Sprintf("%s: %v", e.FilePath, e.cause)
	case 1:
		return fmt.Sprintf("%s: %s", e.FilePath, lines[0])
	default:
		return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
	}
}

// Unwrap returns ErrValidation and the original CUE error.
func (e *ValidationError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.cause}
}

// FormatError converts a CUE error into a *ValidationError whose issues carry
// JSON-path field locations. Non-CUE errors are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	out := &ValidationError{FilePath: filePath, cause: err}
	for _, ce := range cueErrs {
		path := formatPath(cueerrors.Path(ce))
		msg := ce.Error()
		// CUE sometimes repeats the path at the start of the message.
		if path != "" {
			for _, p := range []string{path, strings.Join(cueerrors.Path(ce), ".")} {
				if strings.HasPrefix(msg, p) {
					msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, p), ":"))
					break
				}
			}
		}
		out.Issues = append(out.Issues, Issue{Path: path, Message: msg})
	}
	return out
}

// formatPath converts CUE's flat path (["aliases", "1"]) into JSON-path
// notation ("aliases[1]"). A leading schema definition ("#Manifest") is
// dropped so paths name the user's fields.
func formatPath(path []string) string {
	if len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	var sb strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
