// SPDX-License-Identifier: MPL-2.0

package pack

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/justmyresource/justmyresource/pkg/cueutil"
	"github.com/justmyresource/justmyresource/pkg/resolve"
	"github.com/justmyresource/justmyresource/pkg/resource"
)

const (
	// DefaultResourcesDir holds the resources of a directory pack.
	DefaultResourcesDir = "resources"

	// DefaultArchive is used as a zip pack when the manifest names no archive.
	DefaultArchive = "resources.zip"
)

var (
	//go:embed pack_schema.cue
	manifestSchema []byte

	// ManifestFiles are the manifest names looked up in a pack directory, in order.
	ManifestFiles = []string{"pack.cue", "pack_manifest.json", "pack.yaml", "pack.yml", "pack.toml"}

	// ErrInvalidManifest is the sentinel error wrapped by InvalidManifestError.
	ErrInvalidManifest = errors.New("invalid pack manifest")
)

type (
	// Manifest is the optional metadata file of a pack directory.
	Manifest struct {
		Distribution    string   `json:"distribution,omitempty"`
		Name            string   `json:"name,omitempty"`
		Aliases         []string `json:"aliases,omitempty"`
		Priority        int      `json:"priority"`
		Description     string   `json:"description,omitempty"`
		SourceURL       string   `json:"source_url,omitempty"`
		License         string   `json:"license,omitempty"`
		UpstreamLicense string   `json:"upstream_license,omitempty"`
		Version         string   `json:"version,omitempty"`
		ContentType     string   `json:"content_type,omitempty"`
		Encoding        string   `json:"encoding,omitempty"`
		Extension       string   `json:"extension,omitempty"`
		Archive         string   `json:"archive,omitempty"`
		ResourcesDir    string   `json:"resources_dir,omitempty"`

		Pack     *legacyPackSection     `json:"pack,omitempty"`
		Contents *legacyContentsSection `json:"contents,omitempty"`

		// Path is the file the manifest was read from; empty when the pack has none.
		Path string `json:"-"`
	}

	legacyPackSection struct {
		Prefixes        []string `json:"prefixes,omitempty"`
		Description     string   `json:"description,omitempty"`
		SourceURL       string   `json:"source_url,omitempty"`
		UpstreamLicense string   `json:"upstream_license,omitempty"`
		Version         string   `json:"version,omitempty"`
	}

	legacyContentsSection struct {
		Format string `json:"format,omitempty"`
	}

	// InvalidManifestError is returned when a manifest cannot be parsed or
	// violates the manifest schema.
	InvalidManifestError struct {
		Path  string
		Cause error
	}
)

// Error implements the error interface.
func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("invalid pack manifest %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrInvalidManifest and the cause.
func (e *InvalidManifestError) Unwrap() []error { return []error{ErrInvalidManifest, e.Cause} }

// LoadManifest reads the first manifest found in dir. A directory without a
// manifest yields an empty manifest with the default priority.
func LoadManifest(dir string) (*Manifest, error) {
	for _, name := range ManifestFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read pack manifest: %w", err)
		}
		m, err := ParseManifest(name, data)
		if err != nil {
			return nil, &InvalidManifestError{Path: path, Cause: err}
		}
		m.Path = path
		return m, nil
	}
	return &Manifest{Priority: resolve.DefaultPriority}, nil
}

// ParseManifest decodes a manifest. The format is chosen from the extension of
// filename; YAML and TOML documents are converted and validated against the
// same schema as CUE and JSON.
func ParseManifest(filename string, data []byte) (*Manifest, error) {
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		converted, err := json.Marshal(nonNil(doc))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		data = converted
	case ".toml":
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		converted, err := json.Marshal(nonNil(doc))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		data = converted
	}

	result, err := cueutil.ParseAndDecode[Manifest](manifestSchema, data, "#Manifest", cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	m := result.Value
	m.mergeLegacy()

	if m.Version != "" {
		if _, err := semver.NewVersion(m.Version); err != nil {
			return nil, fmt.Errorf("%s: version %q: %w", filename, m.Version, err)
		}
	}
	return m, nil
}

// Info returns the display metadata declared by the manifest.
func (m *Manifest) Info() resource.PackInfo {
	license := m.License
	if license == "" {
		license = m.UpstreamLicense
	}
	return resource.PackInfo{
		Description: m.Description,
		SourceURL:   m.SourceURL,
		LicenseSPDX: license,
		Version:     m.Version,
	}
}

// SemVer returns the parsed pack version, or nil when none is declared.
func (m *Manifest) SemVer() *semver.Version {
	if m.Version == "" {
		return nil
	}
	v, err := semver.NewVersion(m.Version)
	if err != nil {
		return nil
	}
	return v
}

// mergeLegacy fills unset top-level fields from the pack/contents sections.
func (m *Manifest) mergeLegacy() {
	if p := m.Pack; p != nil {
		for _, prefix := range p.Prefixes {
			if !slices.Contains(m.Aliases, prefix) {
				m.Aliases = append(m.Aliases, prefix)
			}
		}
		m.Description = firstNonEmpty(m.Description, p.Description)
		m.SourceURL = firstNonEmpty(m.SourceURL, p.SourceURL)
		m.UpstreamLicense = firstNonEmpty(m.UpstreamLicense, p.UpstreamLicense)
		m.Version = firstNonEmpty(m.Version, p.Version)
	}
	if c := m.Contents; c != nil {
		m.ContentType = firstNonEmpty(m.ContentType, c.Format)
	}
	m.Pack, m.Contents = nil, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// nonNil keeps an empty document from encoding as JSON null, which CUE would
// reject as a manifest.
func nonNil(doc map[string]any) map[string]any {
	if doc == nil {
		return map[string]any{}
	}
	return doc
}
