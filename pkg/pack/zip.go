// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/justmyresource/justmyresource/pkg/resource"
)

// ZipPack serves the files of a zip archive. The archive is not opened until
// the first request, and the sorted name list is read once.
type ZipPack struct {
	archive  string
	manifest *Manifest
	cfg      config

	listOnce func() ([]string, error)
}

var (
	_ resource.Pack         = (*ZipPack)(nil)
	_ resource.InfoProvider = (*ZipPack)(nil)
	_ resource.TypeProvider = (*ZipPack)(nil)
)

// OpenZip returns a ZipPack serving archive. m may be nil. Only the existence
// of the archive is checked here.
func OpenZip(archive string, m *Manifest, opts ...Option) (*ZipPack, error) {
	info, err := os.Stat(archive)
	if err != nil {
		return nil, fmt.Errorf("open resource archive: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open resource archive: %s is a directory", archive)
	}
	if m == nil {
		m = &Manifest{}
	}

	p := &ZipPack{
		archive:  archive,
		manifest: m,
		cfg:      newConfig(m, opts),
	}
	p.listOnce = sync.OnceValues(p.scan)
	return p, nil
}

// Archive returns the path of the zip file.
func (p *ZipPack) Archive() string { return p.archive }

// GetResource reads the named entry from the archive.
func (p *ZipPack) GetResource(ctx context.Context, name string) (resource.Content, error) {
	if err := ctx.Err(); err != nil {
		return resource.Content{}, err
	}

	stored := p.cfg.normalize(name)
	zr, err := zip.OpenReader(p.archive)
	if err != nil {
		return resource.Content{}, fmt.Errorf("open resource archive: %w", err)
	}
	defer zr.Close()

	f, err := zr.Open(stored)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return resource.Content{}, p.notFound(ctx, name)
		}
		return resource.Content{}, fmt.Errorf("read resource %q: %w", name, err)
	}
	defer f.Close()

	if info, statErr := f.Stat(); statErr == nil && info.IsDir() {
		return resource.Content{}, p.notFound(ctx, name)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return resource.Content{}, fmt.Errorf("read resource %q: %w", name, err)
	}

	return newContent(data, p.contentType(), p.manifest), nil
}

// ListResources returns the file entries of the archive, sorted.
func (p *ZipPack) ListResources(ctx context.Context) ([]string, error) {
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
func (p *ZipPack) PackInfo() resource.PackInfo { return p.manifest.Info() }

// ContentTypeOf returns the pack-wide content type.
func (p *ZipPack) ContentTypeOf(string) string { return p.contentType() }

func (p *ZipPack) scan() ([]string, error) {
	zr, err := zip.OpenReader(p.archive)
	if err != nil {
		return nil, fmt.Errorf("open resource archive: %w", err)
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		names = append(names, f.Name)
	}
	slices.Sort(names)
	return names, nil
}

func (p *ZipPack) contentType() string {
	if p.cfg.contentType != "" {
		return p.cfg.contentType
	}
	return resource.ContentTypeOctetStream
}

func (p *ZipPack) notFound(ctx context.Context, name string) error {
	names, _ := p.ListResources(ctx)
	return &resource.NotFoundError{Pack: p.cfg.label, Name: name, Suggestions: Suggest(name, names)}
}
