// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/justmyresource/justmyresource/pkg/resource"
)

type listFlagValues struct {
	pack   string
	filter string
}

// listOutput is the JSON shape of `list --json`.
type listOutput struct {
	Resources []resource.Info `json:"resources"`
	Count     int             `json:"count"`
}

func newListCommand(app *App, inv *invocation) *cobra.Command {
	flags := &listFlagValues{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available resources",
		Long: `List the resources of every registered pack, sorted by pack and name.

--pack accepts anything a query prefix accepts: a qualified id, a prefix_map
entry, or an unambiguous pack name or alias. A prefix that names no pack, or
more than one, lists nothing.`,
		Example: `  justmyresource list --pack lucide --filter 'arrow-*'
  justmyresource list --filter '**/*.svg' --json`,
		Args: cobra.NoArgs,
		RunE: app.runE(inv, func(cmd *cobra.Command, _ []string) error {
			return app.listResources(cmd, inv, flags)
		}),
	}

	cmd.Flags().StringVar(&flags.pack, "pack", "", "only list this pack (qualified id, name, or alias)")
	cmd.Flags().StringVar(&flags.filter, "filter", "", "glob pattern matched against resource names (e.g. 'arrow-*')")
	return cmd
}

func (a *App) listResources(cmd *cobra.Command, inv *invocation, flags *listFlagValues) error {
	if flags.filter != "" && !doublestar.ValidatePattern(flags.filter) {
		return fmt.Errorf("invalid --filter pattern %q", flags.filter)
	}

	ctx := cmd.Context()
	reg, err := a.openRegistry(ctx, inv)
	if err != nil {
		return err
	}
	infos, err := reg.ListResources(ctx, flags.pack)
	if err != nil {
		return err
	}

	if flags.filter != "" {
		infos = slices.DeleteFunc(infos, func(info resource.Info) bool {
			matched, _ := doublestar.Match(flags.filter, info.Name)
			return !matched
		})
	}
	slices.SortFunc(infos, func(x, y resource.Info) int {
		return cmp.Or(cmp.Compare(x.Pack, y.Pack), cmp.Compare(x.Name, y.Name))
	})

	if inv.flags.jsonOutput {
		if infos == nil {
			infos = []resource.Info{}
		}
		return writeJSON(a.stdout, listOutput{Resources: infos, Count: len(infos)})
	}

	for _, info := range infos {
		if !inv.flags.verbose {
			fmt.Fprintln(a.stdout, info.Name)
			continue
		}
		line := fmt.Sprintf("%s (%s)", info.Name, info.Pack)
		if info.ContentType != "" {
			line += " [" + info.ContentType + "]"
		}
		fmt.Fprintln(a.stdout, line)
	}
	return nil
}
