// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"path"
	"strings"

	"github.com/sahilm/fuzzy"
)

// MaxSuggestions caps the similar names attached to a not-found error.
const MaxSuggestions = 5

type (
	// Normalizer rewrites a requested name into the name stored in the pack.
	Normalizer func(name string) string

	// Option configures the packs created by Open, OpenDir, OpenZip, and NewMemory.
	Option func(*config)

	config struct {
		label       string
		normalizer  Normalizer
		contentType string
	}
)

// WithNormalizer sets the name normalizer. It replaces the extension
// normalizer derived from a manifest's extension field.
func WithNormalizer(n Normalizer) Option {
	return func(c *config) { c.normalizer = n }
}

// WithContentType overrides the content type of every resource in the pack.
func WithContentType(contentType string) Option {
	return func(c *config) { c.contentType = contentType }
}

// WithLabel sets the pack label used in not-found errors, usually the
// qualified id.
func WithLabel(label string) Option {
	return func(c *config) { c.label = label }
}

// AppendExtension returns a Normalizer that appends ext to names without an
// extension, so "lightbulb" finds "lightbulb.svg".
func AppendExtension(ext string) Normalizer {
	return func(name string) string {
		if ext == "" || path.Ext(name) != "" {
			return name
		}
		return name + ext
	}
}

func newConfig(m *Manifest, opts []Option) config {
	c := config{}
	if m != nil {
		c.contentType = m.ContentType
		if m.Extension != "" {
			c.normalizer = AppendExtension(m.Extension)
		}
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) normalize(name string) string {
	if c.normalizer == nil {
		return name
	}
	return c.normalizer(name)
}

// Suggest returns up to MaxSuggestions names from names that look like name:
// fuzzy matches first, best score first, then names contained in name.
func Suggest(name string, names []string) []string {
	if name == "" || len(names) == 0 {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(s string) bool {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
		return len(out) >= MaxSuggestions
	}

	for _, m := range fuzzy.Find(name, names) {
		if add(m.Str) {
			return out
		}
	}

	lower := strings.ToLower(name)
	for _, n := range names {
		if n != "" && strings.Contains(lower, strings.ToLower(n)) {
			if add(n) {
				return out
			}
		}
	}
	return out
}
