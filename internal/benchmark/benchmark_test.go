// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/justmyresource/justmyresource/internal/discovery"
	"github.com/justmyresource/justmyresource/internal/registry"
	"github.com/justmyresource/justmyresource/internal/testutil"
	"github.com/justmyresource/justmyresource/pkg/pack"
	"github.com/justmyresource/justmyresource/pkg/resolve"
	"github.com/justmyresource/justmyresource/pkg/resource"
)

const (
	sampleManifestCUE = `
distribution: "acme-icons"
name:         "lucide"
aliases: ["luc", "lucide-icons"]
priority:    100
description: "Lucide icon set"
source_url:  "https://lucide.dev"
license:     "ISC"
version:     "0.460.0"
content_type: "image/svg+xml"
extension:    ".svg"
`

	sampleManifestYAML = `
distribution: acme-icons
name: lucide
aliases: [luc, lucide-icons]
description: Lucide icon set
version: 0.460.0
extension: .svg
pack:
  prefixes: [lucide-legacy]
  upstream_license: ISC
`

	sampleManifestTOML = `
distribution = "acme-icons"
name = "lucide"
aliases = ["luc", "lucide-icons"]
description = "Lucide icon set"
version = "0.460.0"
extension = ".svg"
`

	svg = `<svg xmlns="http://www.w3.org/2000/svg" width="24" height="24"><path d="M9 18h6"/></svg>`
)

// descriptors returns n packs spread over a handful of distributions, so
// that most pack names are claimed by more than one distribution.
func descriptors(n int) []resolve.Descriptor {
	out := make([]resolve.Descriptor, 0, n)
	for i := range n {
		dist := fmt.Sprintf("dist-%d", i%7)
		name := fmt.Sprintf("pack-%d", i/3)
		out = append(out, resolve.Descriptor{
			QualifiedID: resolve.NewQualifiedID(dist, name),
			PackName:    name,
			Aliases:     []string{fmt.Sprintf("alias-%d", i)},
			Priority:    resolve.DefaultPriority,
		})
	}
	return out
}

// BenchmarkManifestParsing benchmarks schema validation of each manifest format.
// This exercises the hot path in pkg/pack/manifest.go and pkg/cueutil.
func BenchmarkManifestParsing(b *testing.B) {
	for _, tc := range []struct{ filename, data string }{
		{"pack.cue", sampleManifestCUE},
		{"pack.yaml", sampleManifestYAML},
		{"pack.toml", sampleManifestTOML},
	} {
		b.Run(tc.filename, func(b *testing.B) {
			data := []byte(tc.data)
			for b.Loop() {
				if _, err := pack.ParseManifest(tc.filename, data); err != nil {
					b.Fatalf("ParseManifest failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkSnapshotBuild benchmarks building the prefix map and collision
// set from pack descriptors.
func BenchmarkSnapshotBuild(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("packs=%d", n), func(b *testing.B) {
			descs := descriptors(n)
			for b.Loop() {
				resolve.Build(descs)
			}
		})
	}
}

// BenchmarkResolve benchmarks each query form against a 1000-pack snapshot.
func BenchmarkResolve(b *testing.B) {
	snap, _ := resolve.Build(descriptors(1000))
	overrides := map[string]resolve.QualifiedID{"icons": "dist-3/pack-1"}

	queries := []struct {
		name, defaultPrefix, query string
		wantErr                    bool
	}{
		{name: "qualified", query: "dist-0/pack-100:home"},
		{name: "alias", query: "alias-42:home"},
		{name: "override", query: "icons:home"},
		{name: "default prefix", defaultPrefix: "alias-7", query: "home"},
		{name: "ambiguous", query: "pack-100:home", wantErr: true},
		{name: "unknown prefix", query: "nope:home", wantErr: true},
	}
	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			for b.Loop() {
				_, err := resolve.Resolve(snap, overrides, q.defaultPrefix, q.query)
				if (err != nil) != q.wantErr {
					b.Fatalf("Resolve(%q) error = %v, wantErr %v", q.query, err, q.wantErr)
				}
			}
		})
	}
}

// BenchmarkDirDiscovery benchmarks scanning a search path and opening every
// pack directory in it.
// This exercises the hot path in internal/discovery/dir_source.go.
func BenchmarkDirDiscovery(b *testing.B) {
	root := b.TempDir()
	for i := range 50 {
		manifest := fmt.Sprintf("distribution: \"dist-%d\"\nextension: \".svg\"\n", i%5)
		testutil.WritePack(b, root, fmt.Sprintf("pack-%d.jmrpack", i), manifest, map[string]string{
			"home.svg":      svg,
			"lightbulb.svg": svg,
		})
	}
	src := &discovery.DirSource{Paths: []string{root}}

	for b.Loop() {
		candidates, diags := src.Discover(context.Background())
		if len(candidates) != 50 || len(diags) != 0 {
			b.Fatalf("Discover() = %d candidates, %d diagnostics", len(candidates), len(diags))
		}
	}
}

// BenchmarkRegistryFetch benchmarks the full pipeline from query to content
// against an already discovered registry.
func BenchmarkRegistryFetch(b *testing.B) {
	var static discovery.StaticSource
	for i := range 100 {
		p := pack.NewMemory(resource.PackInfo{}, pack.WithLabel(fmt.Sprintf("dist/pack-%d", i)))
		for j := range 20 {
			p.AddText(fmt.Sprintf("icon-%d", j), resource.ContentTypeSVG, svg)
		}
		static = append(static, discovery.Candidate{Distribution: "dist", Name: fmt.Sprintf("pack-%d", i), Pack: p})
	}
	reg := registry.New(registry.Options{
		Sources:       []discovery.Source{static},
		DefaultPrefix: "pack-50",
	})
	ctx := context.Background()
	if err := reg.Discover(ctx); err != nil {
		b.Fatalf("Discover failed: %v", err)
	}

	b.Run("get", func(b *testing.B) {
		for b.Loop() {
			if _, err := reg.GetResource(ctx, "pack-7:icon-3"); err != nil {
				b.Fatalf("GetResource failed: %v", err)
			}
		}
	})
	b.Run("default prefix", func(b *testing.B) {
		for b.Loop() {
			if _, err := reg.GetResource(ctx, "icon-3"); err != nil {
				b.Fatalf("GetResource failed: %v", err)
			}
		}
	})
	b.Run("list", func(b *testing.B) {
		for b.Loop() {
			infos, err := reg.ListResources(ctx, "")
			if err != nil || len(infos) != 2000 {
				b.Fatalf("ListResources() = %d, %v", len(infos), err)
			}
		}
	})
}
