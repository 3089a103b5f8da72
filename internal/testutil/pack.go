// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// WritePack creates the pack directory root/folder with an optional pack.cue
// manifest and the given resources, keyed by slash-separated path below
// resources/. It returns the pack directory.
func WritePack(t testing.TB, root, folder, manifest string, resources map[string]string) string {
	t.Helper()

	dir := filepath.Join(root, folder)
	MustMkdirAll(t, filepath.Join(dir, "resources"), 0o755)
	if manifest != "" {
		MustWriteFile(t, filepath.Join(dir, "pack.cue"), manifest)
	}
	for name, content := range resources {
		MustWriteFile(t, filepath.Join(dir, "resources", filepath.FromSlash(name)), content)
	}
	return dir
}
