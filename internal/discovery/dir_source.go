// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/justmyresource/justmyresource/pkg/pack"
)

// DirSource scans search paths for pack directories. Each search path is
// read non-recursively; every immediate subdirectory ending in pack.Suffix is
// opened with pack.Open. Output order is search-path order, then directory
// name order, independent of how the packs were loaded.
type DirSource struct {
	// Paths are the search paths, highest precedence first.
	Paths []string
	// Options are passed to pack.Open for every pack.
	Options []pack.Option
	// Concurrency caps parallel pack loads; zero means GOMAXPROCS.
	Concurrency int
}

type packLoad struct {
	candidate  Candidate
	diagnostic *Diagnostic
}

// Discover opens every pack directory below the search paths.
func (s *DirSource) Discover(ctx context.Context) ([]Candidate, []Diagnostic) {
	var diags []Diagnostic
	var dirs []string
	seen := make(map[string]bool)

	for _, root := range s.Paths {
		found, diag := scanSearchPath(root)
		if diag != nil {
			diags = append(diags, *diag)
		}
		for _, dir := range found {
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}

	loads := make([]packLoad, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	limit := s.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			loads[i] = s.load(dir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Debug("pack discovery interrupted", "error", err)
		return nil, diags
	}

	var candidates []Candidate
	for _, l := range loads {
		if l.diagnostic != nil {
			diags = append(diags, *l.diagnostic)
			continue
		}
		candidates = append(candidates, l.candidate)
	}
	return candidates, diags
}

func (s *DirSource) load(dir string) packLoad {
	opened, err := pack.Open(dir, s.Options...)
	if err != nil {
		code := CodePackLoadFailed
		if errors.Is(err, pack.ErrInvalidManifest) {
			code = CodeInvalidManifest
		}
		return packLoad{diagnostic: &Diagnostic{
			Severity: SeverityError,
			Code:     code,
			Message:  fmt.Sprintf("skipping pack: %v", err),
			Path:     dir,
			Cause:    err,
		}}
	}

	m := opened.Manifest
	slog.Debug("loaded pack", "dir", dir, "name", opened.Name, "distribution", m.Distribution)
	return packLoad{candidate: Candidate{
		Distribution: m.Distribution,
		Name:         opened.Name,
		Aliases:      m.Aliases,
		Priority:     m.Priority,
		Pack:         opened.Pack,
		Origin:       dir,
	}}
}

// scanSearchPath returns the pack directories directly below root, sorted.
// A missing root is not an error: default search paths often do not exist.
func scanSearchPath(root string) ([]string, *Diagnostic) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeSearchPathUnavailable,
			Message:  fmt.Sprintf("cannot resolve search path: %v", err),
			Path:     root,
			Cause:    err,
		}
	}

	entries, err := os.ReadDir(abs)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("search path does not exist", "path", abs)
		return nil, nil
	}
	if err != nil {
		return nil, &Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeSearchPathUnavailable,
			Message:  fmt.Sprintf("cannot read search path: %v", err),
			Path:     abs,
			Cause:    err,
		}
	}

	var dirs []string
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), pack.Suffix) {
			continue
		}
		full := filepath.Join(abs, e.Name())
		if !e.IsDir() {
			// Follow symlinked pack directories.
			info, statErr := os.Stat(full)
			if statErr != nil || !info.IsDir() {
				continue
			}
		}
		dirs = append(dirs, full)
	}
	return dirs, nil
}
