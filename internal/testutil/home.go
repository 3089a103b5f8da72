// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the user home directory at dir and returns a cleanup
// function that restores the original value. Windows uses USERPROFILE;
// everything else uses HOME.
//
// Usage:
//
//	func TestPacksDir(t *testing.T) {
//	    t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
//	    // Code under test sees the temporary home...
//	}
//
// Tests that call SetHomeDir must not run in parallel.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}
