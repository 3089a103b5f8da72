// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justmyresource/justmyresource/internal/registry"
)

type (
	// infoOutput is the JSON shape of `info --json`.
	infoOutput struct {
		Found    bool              `json:"found"`
		Name     string            `json:"name"`
		Pack     infoPack          `json:"pack"`
		Content  infoContent       `json:"content"`
		Metadata map[string]string `json:"metadata"`
	}

	infoPack struct {
		QualifiedName string   `json:"qualified_name"`
		DistName      string   `json:"dist_name"`
		PackName      string   `json:"pack_name"`
		Aliases       []string `json:"aliases"`
		Version       string   `json:"version,omitempty"`
	}

	infoContent struct {
		ContentType string `json:"content_type"`
		Encoding    string `json:"encoding,omitempty"`
		Size        int    `json:"size"`
		SizeHuman   string `json:"size_human"`
		Path        string `json:"path,omitempty"`
	}
)

func newInfoCommand(app *App, inv *invocation) *cobra.Command {
	return &cobra.Command{
		Use:   "info NAME",
		Short: "Show detailed information about a resource",
		Long: `Resolve NAME and show the pack it came from, its content, and all metadata.
Exits with status 2 when NAME cannot be resolved or does not exist.`,
		Args: cobra.ExactArgs(1),
		RunE: app.runE(inv, func(cmd *cobra.Command, args []string) error {
			return app.resourceInfo(cmd, inv, args[0])
		}),
	}
}

func (a *App) resourceInfo(cmd *cobra.Command, inv *invocation, query string) error {
	ctx := cmd.Context()
	reg, err := a.openRegistry(ctx, inv)
	if err != nil {
		return err
	}
	f, err := reg.Fetch(ctx, query)
	if err != nil {
		return a.lookupFailure(inv, query, err)
	}

	if inv.flags.jsonOutput {
		return writeJSON(a.stdout, newInfoOutput(query, f))
	}

	c := f.Content
	w := a.stdout
	fmt.Fprintf(w, "%s %s\n", CmdStyle.Render("Resource:"), query)
	fmt.Fprintf(w, "%s %s\n", CmdStyle.Render("Pack:"), TitleStyle.Render(string(f.QualifiedID)))
	fmt.Fprintf(w, "  Distribution: %s\n", f.Pack.Distribution)
	fmt.Fprintf(w, "  Pack Name: %s\n", f.Pack.Name)
	if len(f.Pack.Aliases) > 0 {
		fmt.Fprintf(w, "  Aliases: %s\n", strings.Join(f.Pack.Aliases, ", "))
	}
	if f.Pack.Info.Version != "" {
		fmt.Fprintf(w, "  Version: %s\n", f.Pack.Info.Version)
	}

	fmt.Fprintf(w, "\n%s\n", CmdStyle.Render("Content:"))
	fmt.Fprintf(w, "  Content-Type: %s\n", c.ContentType())
	if c.Encoding() != "" {
		fmt.Fprintf(w, "  Encoding: %s\n", c.Encoding())
	}
	fmt.Fprintf(w, "  Size: %s (%d bytes)\n", formatSize(c.Size()), c.Size())
	if f.Path != "" {
		fmt.Fprintf(w, "  Path: %s\n", f.Path)
	}

	meta := c.Metadata()
	if len(meta) > 0 {
		fmt.Fprintf(w, "\n%s\n", CmdStyle.Render("Metadata:"))
		for _, key := range slices.Sorted(maps.Keys(meta)) {
			fmt.Fprintf(w, "  %s: %s\n", capitalize(key), meta[key])
		}
	}
	return nil
}

func newInfoOutput(query string, f registry.Fetched) infoOutput {
	c := f.Content
	aliases := f.Pack.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	meta := c.Metadata()
	if meta == nil {
		meta = map[string]string{}
	}
	return infoOutput{
		Found: true,
		Name:  query,
		Pack: infoPack{
			QualifiedName: string(f.QualifiedID),
			DistName:      f.Pack.Distribution,
			PackName:      f.Pack.Name,
			Aliases:       aliases,
			Version:       f.Pack.Info.Version,
		},
		Content: infoContent{
			ContentType: c.ContentType(),
			Encoding:    c.Encoding(),
			Size:        c.Size(),
			SizeHuman:   formatSize(c.Size()),
			Path:        f.Path,
		},
		Metadata: meta,
	}
}
