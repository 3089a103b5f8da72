// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain registers the CLI as the "justmyresource" testscript command.
func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"justmyresource": func() {
			os.Exit(Run(context.Background(), os.Args[1:]))
		},
	})
}

// TestCLI runs all testscript tests in the testdata directory. Scripts start
// from testscript's minimal environment, so no RESOURCE_* variable is set
// unless a script sets it; HOME and XDG_CONFIG_HOME point below $WORK.
func TestCLI(t *testing.T) {
	t.Parallel()

	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			home := filepath.Join(env.WorkDir, ".home")
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			env.Setenv("HOME", home)
			env.Setenv("USERPROFILE", home)
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
			env.Setenv("NO_COLOR", "1")
			return nil
		},
		ContinueOnError: true,
	})
}
