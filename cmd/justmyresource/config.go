// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/justmyresource/justmyresource/internal/config"
)

// newConfigCommand creates the `justmyresource config` command tree.
// Subcommands report the configuration after environment variables and
// global flags have been merged.
func newConfigCommand(app *App, inv *invocation) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage justmyresource configuration",
		Long: `Manage justmyresource configuration.

Configuration is stored in:
  - Linux: ~/.config/justmyresource/config.cue
  - macOS: ~/Library/Application Support/justmyresource/config.cue
  - Windows: %APPDATA%\justmyresource\config.cue

Environment variables ` + CmdStyle.Render(config.EnvPrefixMap) + `, ` + CmdStyle.Render(config.EnvDefaultPrefix) + `,
` + CmdStyle.Render(config.EnvBlocklist) + ` and ` + CmdStyle.Render(config.EnvPackPath) + ` are applied on top of the file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: app.runE(inv, func(_ *cobra.Command, _ []string) error {
			if inv.flags.jsonOutput {
				return writeJSON(app.stdout, inv.cfg)
			}
			showConfig(app.stdout, inv.cfg)
			return nil
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: app.runE(inv, func(_ *cobra.Command, _ []string) error {
			path, created, err := config.CreateDefaultConfig()
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration and pack directory paths",
		Args:  cobra.NoArgs,
		RunE: app.runE(inv, func(_ *cobra.Command, _ []string) error {
			cfgPath, err := config.ConfigFilePath()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
			if packsDir, err := config.PacksDir(); err == nil {
				fmt.Fprintf(app.stdout, "Packs directory: %s\n", packsDir)
			}
			return nil
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: app.runE(inv, func(_ *cobra.Command, _ []string) error {
			fmt.Fprint(app.stdout, config.GenerateCUE(inv.cfg))
			return nil
		}),
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	none := SubtitleStyle.Render("(none configured)")

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.Path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.Path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("search_paths"))
	paths := cfg.PackPaths()
	if len(paths) == 0 {
		fmt.Fprintf(w, "  %s\n", none)
	}
	for _, p := range paths {
		fmt.Fprintf(w, "  - %s\n", valueStyle.Render(p))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("prefix_map"))
	if len(cfg.PrefixMap) == 0 {
		fmt.Fprintf(w, "  %s\n", none)
	}
	for _, prefix := range slices.Sorted(maps.Keys(cfg.PrefixMap)) {
		fmt.Fprintf(w, "  %s = %s\n", prefix, valueStyle.Render(cfg.PrefixMap[prefix]))
	}

	fmt.Fprintln(w)
	defaultPrefix := none
	if cfg.DefaultPrefix != "" {
		defaultPrefix = valueStyle.Render(cfg.DefaultPrefix)
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("default_prefix"), defaultPrefix)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("blocklist"))
	if len(cfg.Blocklist) == 0 {
		fmt.Fprintf(w, "  %s\n", none)
	}
	for _, b := range cfg.Blocklist {
		fmt.Fprintf(w, "  - %s\n", valueStyle.Render(b))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
}
