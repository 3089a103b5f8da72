// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/justmyresource/justmyresource/pkg/resolve"
	"github.com/justmyresource/justmyresource/pkg/resource"
)

// Opened is a pack directory loaded by Open.
type Opened struct {
	// Dir is the absolute pack directory.
	Dir string
	// Name is the manifest name, or the directory name without Suffix.
	Name string
	// Manifest is never nil.
	Manifest *Manifest
	// Pack serves the resources.
	Pack resource.Pack
}

// Open loads the pack directory dir. The manifest's archive field, or a
// DefaultArchive file, selects a ZipPack; otherwise the resources directory
// is served as a DirPack. Not-found errors are labelled with the qualified
// id unless WithLabel says otherwise.
func Open(dir string, opts ...Option) (*Opened, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	m, err := LoadManifest(abs)
	if err != nil {
		return nil, err
	}

	name := m.Name
	if name == "" {
		name, err = ParsePackName(filepath.Base(abs))
		if err != nil {
			return nil, err
		}
	}

	label := WithLabel(string(resolve.NewQualifiedID(m.Distribution, name)))
	p, err := openContents(abs, m, append([]Option{label}, opts...))
	if err != nil {
		return nil, err
	}
	return &Opened{Dir: abs, Name: name, Manifest: m, Pack: p}, nil
}

func openContents(dir string, m *Manifest, opts []Option) (resource.Pack, error) {
	if m.Archive != "" {
		return OpenZip(localPath(dir, m.Archive), m, opts...)
	}
	if m.ResourcesDir == "" {
		if _, err := os.Stat(filepath.Join(dir, DefaultArchive)); err == nil {
			return OpenZip(filepath.Join(dir, DefaultArchive), m, opts...)
		}
	}

	resourcesDir := m.ResourcesDir
	if resourcesDir == "" {
		resourcesDir = DefaultResourcesDir
	}
	root := localPath(dir, resourcesDir)
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("pack %s has neither %s/ nor %s", dir, resourcesDir, DefaultArchive)
	}
	return OpenDir(root, m, opts...)
}

// localPath joins a manifest-relative path onto dir. Absolute paths are kept.
func localPath(dir, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(dir, filepath.FromSlash(rel))
}
