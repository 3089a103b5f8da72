// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// resolveOutput is the JSON shape of `resolve --json`.
type resolveOutput struct {
	Found         bool   `json:"found"`
	Query         string `json:"query"`
	QualifiedName string `json:"qualified_name"`
	Resource      string `json:"resource"`
}

func newResolveCommand(app *App, inv *invocation) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve NAME",
		Short: "Show which pack a name resolves to",
		Long: `Resolve NAME without loading the resource and print the fully qualified
form ("<distribution>/<pack>:<name>"). Nothing is read from the pack, so a
name the pack does not serve still resolves.

Exits with status 2 when NAME is ambiguous, names an unknown prefix, or has
no prefix and no default_prefix is configured.`,
		Args: cobra.ExactArgs(1),
		RunE: app.runE(inv, func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, err := app.openRegistry(ctx, inv)
			if err != nil {
				return err
			}
			res, err := reg.Resolve(ctx, args[0])
			if err != nil {
				return app.lookupFailure(inv, args[0], err)
			}

			if inv.flags.jsonOutput {
				return writeJSON(app.stdout, resolveOutput{
					Found:         true,
					Query:         args[0],
					QualifiedName: string(res.QualifiedID),
					Resource:      res.ResourceName,
				})
			}
			fmt.Fprintln(app.stdout, res.String())
			return nil
		}),
	}
}
