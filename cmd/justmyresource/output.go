// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/justmyresource/justmyresource/pkg/resolve"
	"github.com/justmyresource/justmyresource/pkg/types"
)

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON output: %w", err)
	}
	return nil
}

// formatSize renders a byte count with one decimal ("1.2 KB"). Counts below
// one kilobyte are printed as whole bytes.
func formatSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}

// capitalize upper-cases the first letter of a metadata key for display.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// lookupFailure reports a failed resolution or fetch in the selected output
// format. JSON callers get {"found": false, "error": ...} on stdout.
func (a *App) lookupFailure(inv *invocation, query string, err error) error {
	code := exitCodeFor(err)
	if inv.flags.jsonOutput {
		out := map[string]any{"found": false, "error": err.Error()}
		if kind := resolve.KindOf(err); kind != "" {
			out["kind"] = kind.String()
		}
		if jsonErr := writeJSON(a.stdout, out); jsonErr != nil {
			return jsonErr
		}
		return reported(code)
	}

	svcErr := asServiceError(err)
	if code == types.ExitNotFound {
		svcErr.StyledMessage = fmt.Sprintf("%s %s\n", WarningStyle.Render("Resource not found:"), query)
	}
	return &ExitError{Code: code, Err: svcErr}
}

func idStrings(ids []resolve.QualifiedID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
