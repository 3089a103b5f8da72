// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/justmyresource/justmyresource/pkg/resource"
)

// MemoryPack serves resources registered in code. It is safe for concurrent
// use, including Add while other goroutines read.
type MemoryPack struct {
	mu        sync.RWMutex
	resources map[string]resource.Content
	info      resource.PackInfo
	cfg       config
}

var (
	_ resource.Pack         = (*MemoryPack)(nil)
	_ resource.InfoProvider = (*MemoryPack)(nil)
	_ resource.TypeProvider = (*MemoryPack)(nil)
)

// NewMemory returns an empty MemoryPack described by info.
func NewMemory(info resource.PackInfo, opts ...Option) *MemoryPack {
	return &MemoryPack{
		resources: make(map[string]resource.Content),
		info:      info,
		cfg:       newConfig(nil, opts),
	}
}

// Add registers c under name, replacing any earlier resource of that name.
func (p *MemoryPack) Add(name string, c resource.Content) *MemoryPack {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resources[name] = c
	return p
}

// AddText registers text with a utf-8 encoding.
func (p *MemoryPack) AddText(name, contentType, text string) *MemoryPack {
	return p.Add(name, resource.NewContent([]byte(text), contentType, resource.EncodingUTF8, nil))
}

// GetResource returns the registered resource.
func (p *MemoryPack) GetResource(ctx context.Context, name string) (resource.Content, error) {
	if err := ctx.Err(); err != nil {
		return resource.Content{}, err
	}
	stored := p.cfg.normalize(name)

	p.mu.RLock()
	c, ok := p.resources[stored]
	p.mu.RUnlock()
	if !ok {
		names, _ := p.ListResources(ctx)
		return resource.Content{}, &resource.NotFoundError{Pack: p.cfg.label, Name: name, Suggestions: Suggest(name, names)}
	}
	if p.cfg.contentType != "" && p.cfg.contentType != c.ContentType() {
		c = resource.NewContent(c.Data(), p.cfg.contentType, c.Encoding(), c.Metadata())
	}
	return c, nil
}

// ListResources returns the registered names, sorted.
func (p *MemoryPack) ListResources(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Sorted(maps.Keys(p.resources)), nil
}

// ContentTypeOf returns the content type of a registered resource, or "".
func (p *MemoryPack) ContentTypeOf(name string) string {
	if p.cfg.contentType != "" {
		return p.cfg.contentType
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resources[p.cfg.normalize(name)].ContentType()
}

// PackInfo returns the description passed to NewMemory.
func (p *MemoryPack) PackInfo() resource.PackInfo { return p.info }
