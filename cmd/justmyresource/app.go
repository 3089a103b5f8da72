// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/justmyresource/justmyresource/internal/config"
	"github.com/justmyresource/justmyresource/internal/discovery"
	"github.com/justmyresource/justmyresource/internal/registry"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App reference.
	App struct {
		Config      ConfigProvider
		Sources     []discovery.Source
		Diagnostics DiagnosticRenderer
		stdout      io.Writer
		stderr      io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Sources are consulted before the configured search paths.
		Sources     []discovery.Source
		Diagnostics DiagnosticRenderer
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// DiagnosticRenderer renders structured diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []discovery.Diagnostic, stderr io.Writer)
	}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}

	return &App{
		Config:      deps.Config,
		Sources:     slices.Clone(deps.Sources),
		Diagnostics: deps.Diagnostics,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}, nil
}

// loadConfig loads configuration and merges the global flags on top of it.
// A broken default config file degrades to defaults with a diagnostic; a
// broken file passed with --config is an error.
func (a *App) loadConfig(ctx context.Context, flags *rootFlagValues) (*config.Config, []discovery.Diagnostic, error) {
	cfg, diags := loadConfigWithFallback(ctx, a.Config, flags.configPath)
	if flags.configPath != "" && len(diags) > 0 {
		return nil, nil, diags[0].Cause
	}
	if err := applyFlags(cfg, flags); err != nil {
		return nil, diags, err
	}
	return cfg, diags, nil
}

// openRegistry builds the registry for one invocation and runs discovery,
// rendering pack diagnostics. Warnings are only shown in verbose mode.
func (a *App) openRegistry(ctx context.Context, inv *invocation) (*registry.Registry, error) {
	reg := registry.NewFromConfig(inv.cfg, a.Sources...)
	if err := reg.Discover(ctx); err != nil {
		return nil, err
	}

	diags, err := reg.Diagnostics(ctx)
	if err != nil {
		return nil, err
	}
	if !inv.flags.verbose {
		diags = slices.DeleteFunc(diags, func(d discovery.Diagnostic) bool {
			return d.Severity != discovery.SeverityError
		})
	}
	if len(diags) > 0 {
		a.Diagnostics.Render(ctx, diags, a.stderr)
	}
	return reg, nil
}

// applyFlags merges --prefix-map, --default-prefix, --blocklist, and
// --pack-path into cfg with the same rules as the environment variables.
func applyFlags(cfg *config.Config, flags *rootFlagValues) error {
	if flags.prefixMap != "" {
		entries, err := config.ParsePrefixMap(flags.prefixMap)
		if err != nil {
			return fmt.Errorf("--prefix-map: %w", err)
		}
		if cfg.PrefixMap == nil {
			cfg.PrefixMap = make(map[string]string, len(entries))
		}
		maps.Copy(cfg.PrefixMap, entries)
	}
	if flags.defaultPrefix != "" {
		cfg.DefaultPrefix = flags.defaultPrefix
	}
	if flags.blocklist != "" {
		for _, entry := range discovery.ParseBlocklist(flags.blocklist).Entries() {
			if !slices.Contains(cfg.Blocklist, entry) {
				cfg.Blocklist = append(cfg.Blocklist, entry)
			}
		}
	}
	if len(flags.packPaths) > 0 {
		var paths []string
		for _, p := range flags.packPaths {
			abs, err := filepath.Abs(p)
			if err != nil {
				return fmt.Errorf("--pack-path %q: %w", p, err)
			}
			paths = append(paths, abs)
		}
		cfg.SearchPaths = append(paths, cfg.SearchPaths...)
	}
	return cfg.Validate()
}

// loadConfigWithFallback loads configuration via the provider. On failure it
// returns defaults with a diagnostic so callers stay operational.
//
// Diagnostic severity depends on the failure mode:
//   - Explicit --config path: always SeverityError.
//   - Default path with an existing but malformed file: SeverityError.
//   - Default path with a missing config dir or similar: SeverityWarning.
func loadConfigWithFallback(ctx context.Context, provider ConfigProvider, configPath string) (*config.Config, []discovery.Diagnostic) {
	cfg, err := provider.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err == nil {
		return cfg, nil
	}

	if configPath != "" {
		return config.DefaultConfig(), []discovery.Diagnostic{{
			Severity: discovery.SeverityError,
			Code:     discovery.CodeConfigLoadFailed,
			Message:  fmt.Sprintf("failed to load config from %s: %v", configPath, err),
			Path:     configPath,
			Cause:    err,
		}}
	}

	severity := discovery.SeverityError
	if errors.Is(err, os.ErrNotExist) {
		severity = discovery.SeverityWarning
	}

	return config.DefaultConfig(), []discovery.Diagnostic{{
		Severity: severity,
		Code:     discovery.CodeConfigLoadFailed,
		Message:  fmt.Sprintf("failed to load config, using defaults: %v", err),
		Cause:    err,
	}}
}

// Render writes structured diagnostics to stderr with lipgloss styling.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []discovery.Diagnostic, stderr io.Writer) {
	for _, diag := range diags {
		prefix := WarningStyle.Render("warning")
		if diag.Severity == discovery.SeverityError {
			prefix = ErrorStyle.Render("error")
		}

		if diag.Path != "" {
			_, _ = fmt.Fprintf(stderr, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}

		_, _ = fmt.Fprintf(stderr, "%s: %s\n", prefix, diag.Message)
	}
}
