// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for justmyresource.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/justmyresource/justmyresource/internal/config"
	"github.com/justmyresource/justmyresource/internal/issue"
	"github.com/justmyresource/justmyresource/pkg/resolve"
	"github.com/justmyresource/justmyresource/pkg/resource"
	"github.com/justmyresource/justmyresource/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// rootFlagValues holds the persistent flags shared by every command.
	rootFlagValues struct {
		configPath    string
		verbose       bool
		jsonOutput    bool
		blocklist     string
		prefixMap     string
		defaultPrefix string
		packPaths     []string
	}

	// invocation is the state of one CLI run: the parsed flags, the merged
	// configuration, and the exit code reported by the command.
	invocation struct {
		flags    rootFlagValues
		cfg      *config.Config
		exitCode types.ExitCode
	}
)

// NewRootCommand builds the command tree for app.
func NewRootCommand(app *App) (*cobra.Command, *invocation) {
	inv := &invocation{}

	rootCmd := &cobra.Command{
		Use:   "justmyresource",
		Short: "Discover resource packs and resolve resource names",
		Long: TitleStyle.Render("justmyresource") + SubtitleStyle.Render(" - Resource discovery and resolution") + `

justmyresource finds resource packs (*.jmrpack directories) on the search
paths and resolves names such as "lucide:lightbulb" to a single pack.
A short name claimed by two packs is never guessed: use the qualified
form ("acme-icons/lucide:lightbulb") or pin it in prefix_map.

` + SubtitleStyle.Render("Examples:") + `
  justmyresource packs --verbose        Show packs, prefixes and collisions
  justmyresource list --pack lucide     List the resources of one pack
  justmyresource get lucide:home -o -   Write a resource to stdout
  justmyresource resolve home           Show where a bare name resolves`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.prepare(cmd.Context(), inv)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&inv.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/justmyresource/config.cue)")
	pf.BoolVarP(&inv.flags.verbose, "verbose", "v", false, "show details and debug logging")
	pf.BoolVar(&inv.flags.jsonOutput, "json", false, "output in JSON format")
	pf.StringVar(&inv.flags.blocklist, "blocklist", "", "comma-separated pack names or qualified ids to skip")
	pf.StringVar(&inv.flags.prefixMap, "prefix-map", "", `prefix overrides ("alias1=dist1/pack1,alias2=dist2/pack2")`)
	pf.StringVar(&inv.flags.defaultPrefix, "default-prefix", "", "prefix applied to names without a colon")
	pf.StringArrayVar(&inv.flags.packPaths, "pack-path", nil, "extra search path, searched first (repeatable)")

	rootCmd.AddCommand(
		newListCommand(app, inv),
		newGetCommand(app, inv),
		newInfoCommand(app, inv),
		newPacksCommand(app, inv),
		newResolveCommand(app, inv),
		newArchiveCommand(app, inv),
		newWatchCommand(app, inv),
		newConfigCommand(app, inv),
	)
	return rootCmd, inv
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:]))
}

// Run runs the CLI with args and returns the process exit code.
func Run(ctx context.Context, args []string) int {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		return int(types.ExitFailure)
	}
	return int(app.run(ctx, args))
}

func (a *App) run(ctx context.Context, args []string) types.ExitCode {
	rootCmd, inv := NewRootCommand(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	// Use fang.Execute for enhanced Cobra styling.
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version.
	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		return exitCodeFor(err)
	}
	return inv.exitCode
}

// prepare loads the configuration, merges the global flags, and installs the
// slog handler. It runs before every command.
func (a *App) prepare(ctx context.Context, inv *invocation) error {
	cfg, diags, err := a.loadConfig(ctx, &inv.flags)
	if err != nil {
		return err
	}
	inv.cfg = cfg
	if !inv.flags.verbose {
		inv.flags.verbose = cfg.UI.Verbose
	}

	level := log.WarnLevel
	if inv.flags.verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))

	if len(diags) > 0 {
		a.Diagnostics.Render(ctx, diags, a.stderr)
	}
	return nil
}

// runE adapts a command handler: failures are rendered here, and the exit
// code is recorded on the invocation instead of being returned to fang, so
// already reported failures are not printed twice.
func (a *App) runE(inv *invocation, fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		inv.exitCode = exitCodeFor(err)

		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Reported() {
			return nil
		}
		renderServiceError(a.stderr, asServiceError(err), inv.flags.verbose, glamourStyle(inv.cfg))
		return nil
	}
}

// exitCodeFor maps an error onto the documented exit codes.
func exitCodeFor(err error) types.ExitCode {
	var exitErr *ExitError
	switch {
	case err == nil:
		return types.ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, context.Canceled):
		return types.ExitInterrupted
	case resolve.KindOf(err) != "", errors.Is(err, resource.ErrResourceNotFound):
		return types.ExitNotFound
	default:
		return types.ExitFailure
	}
}

// glamourStyle maps the configured color scheme onto a glamour style.
func glamourStyle(cfg *config.Config) string {
	if cfg == nil {
		return "auto"
	}
	switch cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
