// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sync"

	"github.com/opencontainers/go-digest"

	"github.com/justmyresource/justmyresource/pkg/resource"
)

const (
	// MetadataPackVersion is the metadata key holding the manifest version.
	MetadataPackVersion = "pack_version"
	// MetadataDigest is the metadata key holding the content digest.
	MetadataDigest = "digest"
)

// DirPack serves the files below a directory. Resource names are slash
// separated paths relative to that directory ("outlined/home.svg").
type DirPack struct {
	root     string
	fsys     fs.FS
	manifest *Manifest
	cfg      config

	listOnce func() ([]string, error)
}

var (
	_ resource.Pack         = (*DirPack)(nil)
	_ resource.InfoProvider = (*DirPack)(nil)
	_ resource.PathProvider = (*DirPack)(nil)
	_ resource.TypeProvider = (*DirPack)(nil)
)

// OpenDir returns a DirPack serving root. m may be nil.
func OpenDir(root string, m *Manifest, opts ...Option) (*DirPack, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open resource directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open resource directory: %s is not a directory", root)
	}
	if m == nil {
		m = &Manifest{}
	}

	p := &DirPack{
		root:     root,
		fsys:     os.DirFS(root),
		manifest: m,
		cfg:      newConfig(m, opts),
	}
	p.listOnce = sync.OnceValues(p.scan)
	return p, nil
}

// Root returns the directory the pack serves.
func (p *DirPack) Root() string { return p.root }

// GetResource reads the named file.
func (p *DirPack) GetResource(ctx context.Context, name string) (resource.Content, error) {
	if err := ctx.Err(); err != nil {
		return resource.Content{}, err
	}

	stored := p.cfg.normalize(name)
	if !fs.ValidPath(stored) || stored == "." {
		return resource.Content{}, p.notFound(ctx, name)
	}

	data, err := fs.ReadFile(p.fsys, stored)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isDir(p.fsys, stored) {
			return resource.Content{}, p.notFound(ctx, name)
		}
		return resource.Content{}, fmt.Errorf("read resource %q: %w", name, err)
	}

	return newContent(data, p.contentTypeFor(stored), p.manifest), nil
}

// ListResources returns every regular file below the root, sorted. The
// listing is read once and cached.
func (p *DirPack) ListResources(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names, err := p.listOnce()
	if err != nil {
		return nil, err
	}
	return slices.Clone(names), nil
}

// PackInfo returns the manifest metadata.
func (p *DirPack) PackInfo() resource.PackInfo { return p.manifest.Info() }

// ResourcePath returns the file that backs name.
func (p *DirPack) ResourcePath(name string) (string, bool) {
	stored := p.cfg.normalize(name)
	if !fs.ValidPath(stored) || stored == "." {
		return "", false
	}
	full := filepath.Join(p.root, filepath.FromSlash(stored))
	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return full, true
}

// ContentTypeOf returns the content type GetResource would report for name.
func (p *DirPack) ContentTypeOf(name string) string {
	return p.contentTypeFor(p.cfg.normalize(name))
}

func (p *DirPack) scan() ([]string, error) {
	var names []string
	err := fs.WalkDir(p.fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list resources in %s: %w", p.root, err)
	}
	slices.Sort(names)
	return names, nil
}

func (p *DirPack) contentTypeFor(name string) string {
	if p.cfg.contentType != "" {
		return p.cfg.contentType
	}
	return guessContentType(name)
}

func (p *DirPack) notFound(ctx context.Context, name string) error {
	names, _ := p.ListResources(ctx)
	return &resource.NotFoundError{Pack: p.cfg.label, Name: name, Suggestions: Suggest(name, names)}
}

func isDir(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && info.IsDir()
}

// guessContentType maps a file extension to a MIME type without parameters.
func guessContentType(name string) string {
	ct := mime.TypeByExtension(path.Ext(name))
	if ct == "" {
		return resource.ContentTypeOctetStream
	}
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
		return mediaType
	}
	return ct
}

// newContent attaches the metadata every bundled pack reports.
func newContent(data []byte, contentType string, m *Manifest) resource.Content {
	encoding := resource.EncodingFor(contentType)
	if m != nil && m.Encoding != "" {
		encoding = m.Encoding
	}
	meta := map[string]string{MetadataDigest: digest.FromBytes(data).String()}
	if m != nil && m.Version != "" {
		meta[MetadataPackVersion] = m.Version
	}
	return resource.NewContent(data, contentType, encoding, meta)
}
