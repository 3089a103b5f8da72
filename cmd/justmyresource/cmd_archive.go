// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justmyresource/justmyresource/pkg/pack"
)

func newArchiveCommand(app *App, inv *invocation) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "archive DIR",
		Short: "Zip a directory pack's resources",
		Long: `Zip the resources of the directory pack DIR into a single archive.

By default the archive is written as ` + CmdStyle.Render(pack.DefaultArchive) + ` inside DIR, and the
pack is served from the zip from then on unless its manifest sets
resources_dir. A pack already served from a zip cannot be archived again.`,
		Example: `  justmyresource archive ./acme-icons.lucide.jmrpack
  justmyresource archive ./acme-icons.lucide.jmrpack -o /tmp/lucide.zip`,
		Args: cobra.ExactArgs(1),
		RunE: app.runE(inv, func(_ *cobra.Command, args []string) error {
			path, err := pack.Archive(args[0], output)
			if err != nil {
				return fmt.Errorf("failed to archive pack: %w", err)
			}
			if inv.flags.jsonOutput {
				return writeJSON(app.stdout, map[string]string{"archive": path})
			}
			fmt.Fprintf(app.stdout, "%s Archived %s to %s\n", SuccessStyle.Render("✓"), args[0], path)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path (default <DIR>/"+pack.DefaultArchive+")")
	return cmd
}
