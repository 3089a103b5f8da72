// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const testEnvKey = "JUSTMYRESOURCE_TESTUTIL_ENV"

func TestMustSetenv_RestoresUnset(t *testing.T) {
	// Not parallel: mutates the process environment.
	if _, ok := os.LookupEnv(testEnvKey); ok {
		t.Skipf("%s is set in the environment", testEnvKey)
	}

	cleanup := MustSetenv(t, testEnvKey, "value")
	if got := os.Getenv(testEnvKey); got != "value" {
		t.Errorf("Getenv() = %q, want %q", got, "value")
	}

	cleanup()
	if _, ok := os.LookupEnv(testEnvKey); ok {
		t.Errorf("%s still set after cleanup", testEnvKey)
	}
}

func TestMustUnsetenv_RestoresValue(t *testing.T) {
	// Not parallel: mutates the process environment.
	t.Cleanup(MustSetenv(t, testEnvKey, "original"))

	cleanup := MustUnsetenv(t, testEnvKey)
	if _, ok := os.LookupEnv(testEnvKey); ok {
		t.Errorf("%s still set after MustUnsetenv", testEnvKey)
	}

	cleanup()
	if got := os.Getenv(testEnvKey); got != "original" {
		t.Errorf("Getenv() = %q, want %q", got, "original")
	}
}

func TestSetHomeDir(t *testing.T) {
	// Not parallel: mutates the process environment.
	dir := t.TempDir()
	t.Cleanup(SetHomeDir(t, dir))

	key := "HOME"
	if runtime.GOOS == "windows" {
		key = "USERPROFILE"
	}
	if got := os.Getenv(key); got != dir {
		t.Errorf("%s = %q, want %q", key, got, dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir() error = %v", err)
	}
	if home != dir {
		t.Errorf("UserHomeDir() = %q, want %q", home, dir)
	}
}

func TestWritePack(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := WritePack(t, root, "lucide.jmrpack", `distribution: "acme-icons"`, map[string]string{
		"home.svg":          "<svg/>",
		"outlined/star.svg": "<svg id=\"star\"/>",
	})

	if want := filepath.Join(root, "lucide.jmrpack"); dir != want {
		t.Errorf("WritePack() = %q, want %q", dir, want)
	}
	for path, want := range map[string]string{
		filepath.Join(dir, "pack.cue"):                          `distribution: "acme-icons"`,
		filepath.Join(dir, "resources", "home.svg"):             "<svg/>",
		filepath.Join(dir, "resources", "outlined", "star.svg"): "<svg id=\"star\"/>",
	} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("ReadFile(%s) error = %v", path, err)
			continue
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", path, data, want)
		}
	}
}

func TestWritePack_NoManifest(t *testing.T) {
	t.Parallel()

	dir := WritePack(t, t.TempDir(), "feather.jmrpack", "", nil)
	if _, err := os.Stat(filepath.Join(dir, "pack.cue")); !os.IsNotExist(err) {
		t.Errorf("Stat(pack.cue) error = %v, want not-exist", err)
	}
	info, err := os.Stat(filepath.Join(dir, "resources"))
	if err != nil || !info.IsDir() {
		t.Errorf("resources/ missing: %v", err)
	}
}
