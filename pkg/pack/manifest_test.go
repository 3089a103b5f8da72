// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/justmyresource/justmyresource/internal/testutil"
	"github.com/justmyresource/justmyresource/pkg/cueutil"
)

func TestParseManifest_Formats(t *testing.T) {
	t.Parallel()

	want := &Manifest{
		Distribution: "acme-icons",
		Name:         "lucide",
		Aliases:      []string{"luc"},
		Priority:     50,
		Version:      "1.2.0",
		ContentType:  "image/svg+xml",
	}

	tests := []struct {
		filename string
		data     string
	}{
		{
			filename: "pack.cue",
			data: `distribution: "acme-icons"
name: "lucide"
aliases: ["luc"]
priority: 50
version: "1.2.0"
content_type: "image/svg+xml"
`,
		},
		{
			filename: "pack_manifest.json",
			data: `{"distribution": "acme-icons", "name": "lucide", "aliases": ["luc"],
"priority": 50, "version": "1.2.0", "content_type": "image/svg+xml"}`,
		},
		{
			filename: "pack.yaml",
			data: `distribution: acme-icons
name: lucide
aliases: [luc]
priority: 50
version: "1.2.0"
content_type: image/svg+xml
`,
		},
		{
			filename: "pack.toml",
			data: `distribution = "acme-icons"
name = "lucide"
aliases = ["luc"]
priority = 50
version = "1.2.0"
content_type = "image/svg+xml"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()

			got, err := ParseManifest(tt.filename, []byte(tt.data))
			if err != nil {
				t.Fatalf("ParseManifest() error = %v", err)
			}
			if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(Manifest{})); diff != "" {
				t.Errorf("ParseManifest() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseManifest_LegacyLayout(t *testing.T) {
	t.Parallel()

	data := `{
  "pack": {
    "prefixes": ["luc", "lc"],
    "description": "Lucide icons",
    "source_url": "https://lucide.dev",
    "upstream_license": "ISC",
    "version": "0.300.0",
    "icon_count": 1200
  },
  "contents": {"format": "image/svg+xml", "variants": ["outlined"]}
}`

	m, err := ParseManifest("pack_manifest.json", []byte(data))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	if diff := cmp.Diff([]string{"luc", "lc"}, m.Aliases); diff != "" {
		t.Errorf("Aliases mismatch (-want +got):\n%s", diff)
	}
	if m.ContentType != "image/svg+xml" {
		t.Errorf("ContentType = %q, want image/svg+xml", m.ContentType)
	}
	if m.Priority != 100 {
		t.Errorf("Priority = %d, want default 100", m.Priority)
	}
	info := m.Info()
	if info.LicenseSPDX != "ISC" || info.Description != "Lucide icons" || info.Version != "0.300.0" {
		t.Errorf("Info() = %+v", info)
	}
	if v := m.SemVer(); v == nil || v.Minor() != 300 {
		t.Errorf("SemVer() = %v, want 0.300.0", v)
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		data     string
		wantCUE  bool
	}{
		{name: "alias with colon", filename: "pack.cue", data: `aliases: ["a:b"]`, wantCUE: true},
		{name: "name with slash", filename: "pack.cue", data: `name: "a/b"`, wantCUE: true},
		{name: "unknown field", filename: "pack.cue", data: `colour: "red"`, wantCUE: true},
		{name: "priority type", filename: "pack.yaml", data: "priority: high\n", wantCUE: true},
		{name: "bad content type", filename: "pack.toml", data: `content_type = "svg"`, wantCUE: true},
		{name: "bad version", filename: "pack.cue", data: `version: "one"`},
		{name: "yaml syntax", filename: "pack.yaml", data: "name: [\n"},
		{name: "toml syntax", filename: "pack.toml", data: "name = \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseManifest(tt.filename, []byte(tt.data))
			if err == nil {
				t.Fatal("ParseManifest() error = nil, want error")
			}
			if tt.wantCUE && !errors.Is(err, cueutil.ErrValidation) {
				t.Errorf("ParseManifest() error = %v, want schema validation error", err)
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	t.Run("missing manifest is empty", func(t *testing.T) {
		t.Parallel()

		m, err := LoadManifest(t.TempDir())
		if err != nil {
			t.Fatalf("LoadManifest() error = %v", err)
		}
		if m.Path != "" || m.Name != "" || m.Priority != 100 {
			t.Errorf("LoadManifest() = %+v, want empty manifest with priority 100", m)
		}
	})

	t.Run("cue wins over yaml", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		testutil.MustWriteFile(t, filepath.Join(dir, "pack.yaml"), "name: from-yaml\n")
		testutil.MustWriteFile(t, filepath.Join(dir, "pack.cue"), `name: "from-cue"`)

		m, err := LoadManifest(dir)
		if err != nil {
			t.Fatalf("LoadManifest() error = %v", err)
		}
		if m.Name != "from-cue" || filepath.Base(m.Path) != "pack.cue" {
			t.Errorf("LoadManifest() = %q from %q, want from-cue from pack.cue", m.Name, m.Path)
		}
	})

	t.Run("invalid manifest names the file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		testutil.MustWriteFile(t, filepath.Join(dir, "pack.yml"), "aliases: [\"x/y\"]\n")

		_, err := LoadManifest(dir)
		var invalid *InvalidManifestError
		if !errors.As(err, &invalid) {
			t.Fatalf("LoadManifest() error = %v, want *InvalidManifestError", err)
		}
		if filepath.Base(invalid.Path) != "pack.yml" {
			t.Errorf("Path = %q, want pack.yml", invalid.Path)
		}
		if !errors.Is(err, ErrInvalidManifest) {
			t.Error("error does not wrap ErrInvalidManifest")
		}
	})
}
