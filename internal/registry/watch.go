// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/justmyresource/justmyresource/internal/watch"
)

// WatchOptions configures Registry.Watch.
type WatchOptions struct {
	// Roots are the directories to watch; empty means SearchPaths.
	Roots []string
	// Debounce is the quiet period before a rebuild; zero means
	// watch.DefaultDebounce.
	Debounce time.Duration
	// ClearScreen clears the terminal before each OnRebuild call.
	ClearScreen bool
	// Stdout receives the clear-screen sequence; nil means os.Stdout.
	Stdout io.Writer
	// OnRebuild is called after every rebuild with the paths that triggered
	// it and the rebuild error, if any.
	OnRebuild func(ctx context.Context, changed []string, err error)
}

// Watch rebuilds the registry whenever a file below the watched roots
// changes. It blocks until ctx is cancelled. A failed rebuild keeps the
// previous snapshot published.
func (r *Registry) Watch(ctx context.Context, opts WatchOptions) error {
	roots := opts.Roots
	if len(roots) == 0 {
		roots = r.SearchPaths()
	}

	w, err := watch.New(watch.Config{
		Roots:       roots,
		Debounce:    opts.Debounce,
		ClearScreen: opts.ClearScreen,
		Stdout:      opts.Stdout,
		OnChange: func(ctx context.Context, changed []string) error {
			slog.Debug("pack files changed, rebuilding registry", "files", len(changed))
			err := r.Rebuild(ctx)
			if opts.OnRebuild != nil {
				opts.OnRebuild(ctx, changed, err)
			}
			return err
		},
	})
	if err != nil {
		return fmt.Errorf("watch search paths: %w", err)
	}
	return w.Run(ctx)
}
