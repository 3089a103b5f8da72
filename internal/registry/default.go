// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"sync"

	"github.com/justmyresource/justmyresource/internal/config"
	"github.com/justmyresource/justmyresource/internal/discovery"
)

var (
	defaultMu sync.Mutex
	defaultFn = sync.OnceValues(loadDefault)
)

// NewFromConfig creates a Registry from a loaded configuration. The extra
// sources are consulted before the configured search paths, so packs
// registered in code win duplicate qualified ids.
func NewFromConfig(cfg *config.Config, extra ...discovery.Source) *Registry {
	sources := append([]discovery.Source{}, extra...)
	sources = append(sources, &discovery.DirSource{Paths: cfg.PackPaths()})

	return New(Options{
		Sources:       sources,
		Overrides:     cfg.Overrides(),
		DefaultPrefix: cfg.DefaultPrefix,
		Blocklist:     discovery.NewBlocklist(cfg.Blocklist...),
	})
}

// Default returns the process-wide Registry built from the user's
// configuration and environment. The configuration is loaded once; packs are
// discovered on first use.
func Default() (*Registry, error) {
	defaultMu.Lock()
	fn := defaultFn
	defaultMu.Unlock()
	return fn()
}

// ResetDefault discards the process-wide Registry. The next Default call
// reloads the configuration.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultFn = sync.OnceValues(loadDefault)
}

func loadDefault() (*Registry, error) {
	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{})
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg), nil
}

// SearchPaths returns the directories scanned by the registry's directory
// sources, in precedence order.
func (r *Registry) SearchPaths() []string {
	var paths []string
	for _, src := range r.opts.Sources {
		if ds, ok := src.(*discovery.DirSource); ok {
			paths = append(paths, ds.Paths...)
		}
	}
	return paths
}
