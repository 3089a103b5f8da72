// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/justmyresource/justmyresource/internal/registry"
)

func newWatchCommand(app *App, inv *invocation) *cobra.Command {
	var (
		debounce    time.Duration
		clearScreen bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the registry when packs change",
		Long: `Watch the search paths and rebuild the registry whenever a pack is added,
removed, or edited. After each rebuild the registered packs and any prefix
collisions are printed. A failed rebuild keeps the previous registry.

Press Ctrl+C to stop.`,
		Args: cobra.NoArgs,
		RunE: app.runE(inv, func(cmd *cobra.Command, _ []string) error {
			return app.watchPacks(cmd, inv, debounce, clearScreen)
		}),
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before rebuilding (default 500ms)")
	cmd.Flags().BoolVar(&clearScreen, "clear", false, "clear the terminal before each report")
	return cmd
}

func (a *App) watchPacks(cmd *cobra.Command, inv *invocation, debounce time.Duration, clearScreen bool) error {
	ctx := cmd.Context()
	reg, err := a.openRegistry(ctx, inv)
	if err != nil {
		return err
	}

	a.reportRegistry(ctx, reg)
	fmt.Fprintf(a.stdout, "\n%s Watching %d search path(s) for changes (Ctrl+C to stop)...\n\n",
		CmdStyle.Render("→"), len(reg.SearchPaths()))

	err = reg.Watch(ctx, registry.WatchOptions{
		Debounce:    debounce,
		ClearScreen: clearScreen,
		Stdout:      a.stdout,
		OnRebuild: func(ctx context.Context, changed []string, err error) {
			if err != nil {
				fmt.Fprintf(a.stderr, "%s Rebuild failed, keeping the previous registry: %v\n", WarningStyle.Render("!"), err)
				return
			}
			fmt.Fprintf(a.stdout, "%s Detected %d change(s), registry rebuilt.\n", CmdStyle.Render("→"), len(changed))
			a.reportRegistry(ctx, reg)
		},
	})
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// reportRegistry prints the pack count and every colliding prefix.
func (a *App) reportRegistry(ctx context.Context, reg *registry.Registry) {
	packs, err := reg.ListPacks(ctx)
	if err != nil {
		return
	}
	fmt.Fprintf(a.stdout, "%s %d pack(s) registered\n", SuccessStyle.Render("✓"), len(packs))

	collisions, err := reg.Collisions(ctx)
	if err != nil {
		return
	}
	for _, prefix := range slices.Sorted(maps.Keys(collisions)) {
		fmt.Fprintf(a.stdout, "  %s %q is claimed by %s\n",
			WarningStyle.Render("!"), prefix, strings.Join(idStrings(collisions[prefix]), ", "))
	}
}
