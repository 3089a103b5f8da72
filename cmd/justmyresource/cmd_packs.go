// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justmyresource/justmyresource/internal/registry"
)

type (
	// packsOutput is the JSON shape of `packs --json`.
	packsOutput struct {
		Packs   []packOutput `json:"packs"`
		Count   int          `json:"count"`
		Blocked []string     `json:"blocked,omitempty"`
	}

	packOutput struct {
		QualifiedName     string   `json:"qualified_name"`
		DistName          string   `json:"dist_name"`
		PackName          string   `json:"pack_name"`
		Aliases           []string `json:"aliases"`
		Description       string   `json:"description,omitempty"`
		SourceURL         string   `json:"source_url,omitempty"`
		LicenseSPDX       string   `json:"license_spdx,omitempty"`
		Version           string   `json:"version,omitempty"`
		Prefixes          []string `json:"prefixes,omitempty"`
		CollidingPrefixes []string `json:"colliding_prefixes,omitempty"`
	}
)

func newPacksCommand(app *App, inv *invocation) *cobra.Command {
	return &cobra.Command{
		Use:   "packs",
		Short: "List registered resource packs",
		Long: `List every registered pack by qualified id.

With --verbose each pack also shows the prefixes that resolve to it and the
names or aliases it shares with another pack. Shared prefixes never resolve
on their own; use the qualified id or a prefix_map entry.`,
		Args: cobra.NoArgs,
		RunE: app.runE(inv, func(cmd *cobra.Command, _ []string) error {
			return app.listPacks(cmd, inv)
		}),
	}
}

func (a *App) listPacks(cmd *cobra.Command, inv *invocation) error {
	ctx := cmd.Context()
	reg, err := a.openRegistry(ctx, inv)
	if err != nil {
		return err
	}
	packs, err := reg.ListPacks(ctx)
	if err != nil {
		return err
	}
	blocked, err := reg.Blocked(ctx)
	if err != nil {
		return err
	}

	verbose := inv.flags.verbose
	if inv.flags.jsonOutput {
		out := packsOutput{Packs: make([]packOutput, 0, len(packs)), Count: len(packs)}
		for _, p := range packs {
			out.Packs = append(out.Packs, newPackOutput(p, verbose))
		}
		if verbose {
			out.Blocked = idStrings(blocked)
		}
		return writeJSON(a.stdout, out)
	}

	if len(packs) == 0 {
		fmt.Fprintln(a.stdout, SubtitleStyle.Render("No resource packs registered."))
		if paths := reg.SearchPaths(); len(paths) > 0 {
			fmt.Fprintf(a.stdout, "Searched: %s\n", strings.Join(paths, ", "))
		}
		return nil
	}

	if !verbose {
		t := newTable("PACK", "ALIASES", "DESCRIPTION")
		for _, p := range packs {
			t.Row(string(p.QualifiedID), strings.Join(p.Aliases, ", "), p.Info.Description)
		}
		fmt.Fprintln(a.stdout, t.Render())
		return nil
	}

	w := a.stdout
	fmt.Fprintf(w, "%s\n\n", TitleStyle.Render(fmt.Sprintf("Registered resource packs (%d):", len(packs))))
	for _, p := range packs {
		fmt.Fprintf(w, "  %s\n", TitleStyle.Render(string(p.QualifiedID)))
		fmt.Fprintf(w, "    Distribution: %s\n", p.Distribution)
		fmt.Fprintf(w, "    Pack: %s\n", p.Name)
		if p.Info.Description != "" {
			fmt.Fprintf(w, "    Description: %s\n", p.Info.Description)
		}
		if p.Info.Version != "" {
			fmt.Fprintf(w, "    Version: %s\n", p.Info.Version)
		}
		if p.Info.SourceURL != "" {
			fmt.Fprintf(w, "    Source: %s\n", p.Info.SourceURL)
		}
		if p.Info.LicenseSPDX != "" {
			fmt.Fprintf(w, "    License: %s\n", p.Info.LicenseSPDX)
		}
		if len(p.Aliases) > 0 {
			fmt.Fprintf(w, "    Aliases: %s\n", strings.Join(p.Aliases, ", "))
		}
		if len(p.Prefixes) > 0 {
			fmt.Fprintf(w, "    Prefixes: %s\n", CmdStyle.Render(strings.Join(p.Prefixes, ", ")))
		}
		if len(p.Colliding) > 0 {
			fmt.Fprintf(w, "    Colliding prefixes: %s\n", WarningStyle.Render(strings.Join(p.Colliding, ", ")))
		}
		fmt.Fprintf(w, "    Origin: %s\n\n", SubtitleStyle.Render(p.Origin))
	}
	if len(blocked) > 0 {
		fmt.Fprintf(w, "%s %s\n", WarningStyle.Render("Blocked:"), strings.Join(idStrings(blocked), ", "))
	}
	return nil
}

func newPackOutput(p registry.PackEntry, verbose bool) packOutput {
	aliases := p.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	out := packOutput{
		QualifiedName: string(p.QualifiedID),
		DistName:      p.Distribution,
		PackName:      p.Name,
		Aliases:       aliases,
		Description:   p.Info.Description,
		SourceURL:     p.Info.SourceURL,
		LicenseSPDX:   p.Info.LicenseSPDX,
		Version:       p.Info.Version,
	}
	if verbose {
		out.Prefixes = p.Prefixes
		out.CollidingPrefixes = p.Colliding
	}
	return out
}
