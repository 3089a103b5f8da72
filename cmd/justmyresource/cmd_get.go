// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/justmyresource/justmyresource/internal/registry"
)

// getOutput is the JSON shape of `get --json`.
type getOutput struct {
	Found       bool              `json:"found"`
	Name        string            `json:"name"`
	Pack        string            `json:"pack"`
	ContentType string            `json:"content_type"`
	Encoding    string            `json:"encoding,omitempty"`
	Size        int               `json:"size"`
	SizeHuman   string            `json:"size_human"`
	Metadata    map[string]string `json:"metadata"`
	Path        string            `json:"path,omitempty"`
}

func newGetCommand(app *App, inv *invocation) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Show a resource's metadata or write its contents",
		Long: `Resolve NAME and show the resource's metadata.

With -o - the contents are written to stdout; with -o PATH they are saved to
PATH. Text resources are written as text and binary resources byte for byte.
Exits with status 2 when NAME cannot be resolved or does not exist.`,
		Example: `  justmyresource get lucide:lightbulb
  justmyresource get acme-icons/lucide:home -o home.svg
  justmyresource get home -o - --default-prefix lucide`,
		Args: cobra.ExactArgs(1),
		RunE: app.runE(inv, func(cmd *cobra.Command, args []string) error {
			return app.getResource(cmd, inv, args[0], output)
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the contents to PATH, or to stdout with '-'")
	return cmd
}

func (a *App) getResource(cmd *cobra.Command, inv *invocation, query, output string) error {
	ctx := cmd.Context()
	reg, err := a.openRegistry(ctx, inv)
	if err != nil {
		return err
	}
	f, err := reg.Fetch(ctx, query)
	if err != nil {
		return a.lookupFailure(inv, query, err)
	}

	switch output {
	case "":
		return a.printResourceSummary(inv, query, f)
	case "-":
		return a.writeContents(f)
	default:
		if err := os.WriteFile(output, f.Content.Data(), 0o644); err != nil {
			return fmt.Errorf("save %s: %w", output, err)
		}
		if !inv.flags.jsonOutput {
			fmt.Fprintf(a.stderr, "Saved to: %s\n", output)
		}
		return nil
	}
}

// writeContents writes text resources decoded and binary resources raw.
func (a *App) writeContents(f registry.Fetched) error {
	if f.Content.IsText() {
		text, err := f.Content.Text()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(a.stdout, text)
		return err
	}
	_, err := a.stdout.Write(f.Content.Data())
	return err
}

func (a *App) printResourceSummary(inv *invocation, query string, f registry.Fetched) error {
	c := f.Content
	if inv.flags.jsonOutput {
		meta := c.Metadata()
		if meta == nil {
			meta = map[string]string{}
		}
		return writeJSON(a.stdout, getOutput{
			Found:       true,
			Name:        query,
			Pack:        string(f.QualifiedID),
			ContentType: c.ContentType(),
			Encoding:    c.Encoding(),
			Size:        c.Size(),
			SizeHuman:   formatSize(c.Size()),
			Metadata:    meta,
			Path:        f.Path,
		})
	}

	w := a.stdout
	fmt.Fprintf(w, "%s %s\n", CmdStyle.Render("Resource:"), query)
	fmt.Fprintf(w, "%s %s\n", CmdStyle.Render("Pack:"), f.QualifiedID)
	fmt.Fprintf(w, "%s %s\n", CmdStyle.Render("Content-Type:"), c.ContentType())
	if c.Encoding() != "" {
		fmt.Fprintf(w, "%s %s\n", CmdStyle.Render("Encoding:"), c.Encoding())
	}
	fmt.Fprintf(w, "%s %s\n", CmdStyle.Render("Size:"), formatSize(c.Size()))
	if f.Path != "" {
		fmt.Fprintf(w, "%s %s\n", CmdStyle.Render("Path:"), f.Path)
	}
	meta := c.Metadata()
	for _, key := range slices.Sorted(maps.Keys(meta)) {
		fmt.Fprintf(w, "%s %s\n", CmdStyle.Render(capitalize(key)+":"), meta[key])
	}
	return nil
}
