// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/justmyresource/justmyresource/internal/discovery"
	"github.com/justmyresource/justmyresource/pkg/resolve"
	"github.com/justmyresource/justmyresource/pkg/resource"
)

type (
	// Options configures a Registry. The zero value is a registry with no
	// packs and no default prefix.
	Options struct {
		// Sources are consulted in order; earlier sources win duplicate
		// qualified ids.
		Sources []discovery.Source
		// Overrides pin a prefix to a qualified id. They take precedence over
		// names and aliases declared by packs.
		Overrides map[string]resolve.QualifiedID
		// DefaultPrefix is applied to queries without a colon.
		DefaultPrefix string
		// Blocklist excludes packs before the snapshot is built.
		Blocklist discovery.Blocklist
	}

	// Registry discovers packs and resolves queries against them. It is safe
	// for concurrent use.
	Registry struct {
		opts    Options
		buildMu sync.Mutex
		current atomic.Pointer[state]
	}

	// PackEntry describes one registered pack.
	PackEntry struct {
		QualifiedID  resolve.QualifiedID
		Distribution string
		Name         string
		Aliases      []string
		Priority     int
		Info         resource.PackInfo
		// Origin is the pack directory, or "static" for code-registered packs.
		Origin string
		// Prefixes resolve to this pack without qualification.
		Prefixes []string
		// Colliding are this pack's names and aliases shared with another pack.
		Colliding []string
		// Pack serves the resources.
		Pack resource.Pack
	}

	// Fetched is a resolved and loaded resource.
	Fetched struct {
		resolve.Result
		Pack    PackEntry
		Content resource.Content
		// Path is the local file backing the resource, when there is one.
		Path string
	}

	// state is one published build. It is never mutated after publication.
	state struct {
		snapshot    *resolve.Snapshot
		resolver    resolve.Resolver
		packs       map[resolve.QualifiedID]discovery.Candidate
		blocked     []resolve.QualifiedID
		diagnostics []discovery.Diagnostic
	}
)

// New creates a Registry. Nothing is discovered until the first query or an
// explicit Discover.
func New(opts Options) *Registry {
	opts.Overrides = maps.Clone(opts.Overrides)
	opts.Sources = slices.Clone(opts.Sources)
	return &Registry{opts: opts}
}

// DefaultPrefix returns the configured default prefix.
func (r *Registry) DefaultPrefix() string { return r.opts.DefaultPrefix }

// Overrides returns a copy of the configured prefix overrides.
func (r *Registry) Overrides() map[string]resolve.QualifiedID {
	return maps.Clone(r.opts.Overrides)
}

// Discover builds the snapshot if it has not been built yet. Concurrent
// callers wait for the same build.
func (r *Registry) Discover(ctx context.Context) error {
	_, err := r.load(ctx)
	return err
}

// Rebuild discovers packs again and replaces the published snapshot. Queries
// running concurrently see either the old or the new snapshot.
func (r *Registry) Rebuild(ctx context.Context) error {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	st, err := r.build(ctx)
	if err != nil {
		return err
	}
	r.current.Store(st)
	return nil
}

// Snapshot returns the current snapshot, discovering first if needed.
func (r *Registry) Snapshot(ctx context.Context) (*resolve.Snapshot, error) {
	st, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.snapshot, nil
}

// Resolve maps query onto a pack and resource name without fetching anything.
func (r *Registry) Resolve(ctx context.Context, query string) (resolve.Result, error) {
	st, err := r.load(ctx)
	if err != nil {
		return resolve.Result{}, err
	}
	return st.resolve(query)
}

// GetResource resolves query and loads the resource.
func (r *Registry) GetResource(ctx context.Context, query string) (resource.Content, error) {
	f, err := r.Fetch(ctx, query)
	if err != nil {
		return resource.Content{}, err
	}
	return f.Content, nil
}

// Fetch resolves query and loads the resource together with its pack.
func (r *Registry) Fetch(ctx context.Context, query string) (Fetched, error) {
	st, err := r.load(ctx)
	if err != nil {
		return Fetched{}, err
	}
	res, err := st.resolve(query)
	if err != nil {
		return Fetched{}, err
	}

	c := st.packs[res.QualifiedID]
	content, err := c.Pack.GetResource(ctx, res.ResourceName)
	if err != nil {
		return Fetched{}, fetchError(err, res, query)
	}

	f := Fetched{Result: res, Pack: st.entry(res.QualifiedID), Content: content}
	if pp, ok := c.Pack.(resource.PathProvider); ok {
		f.Path, _ = pp.ResourcePath(res.ResourceName)
	}
	return f, nil
}

// ListResources lists resources of every pack, ordered by qualified id. A non-empty
// packFilter is resolved with the same prefix rules as a query: a qualified
// id, an override, or an unambiguous name or alias. A filter that resolves to
// no pack yields an empty list.
func (r *Registry) ListResources(ctx context.Context, packFilter string) ([]resource.Info, error) {
	st, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	ids := st.snapshot.QualifiedIDs()
	if packFilter != "" {
		res, err := resolve.Resolve(st.snapshot, r.opts.Overrides, "", packFilter+resolve.Separator+"_")
		if err != nil {
			slog.Debug("pack filter matches no pack", "filter", packFilter, "error", err)
			return nil, nil
		}
		ids = []resolve.QualifiedID{res.QualifiedID}
	}

	var out []resource.Info
	for _, id := range ids {
		p := st.packs[id].Pack
		names, err := p.ListResources(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			slog.Warn("cannot list pack resources", "pack", id, "error", err)
			continue
		}
		tp, _ := p.(resource.TypeProvider)
		for _, name := range names {
			info := resource.Info{Name: name, Pack: string(id)}
			if tp != nil {
				info.ContentType = tp.ContentTypeOf(name)
			}
			out = append(out, info)
		}
	}
	return out, nil
}

// ListPacks returns every registered pack, ordered by qualified id.
func (r *Registry) ListPacks(ctx context.Context) ([]PackEntry, error) {
	st, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	ids := st.snapshot.QualifiedIDs()
	out := make([]PackEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, st.entry(id))
	}
	return out, nil
}

// Pack returns the pack registered under id.
func (r *Registry) Pack(ctx context.Context, id resolve.QualifiedID) (PackEntry, bool, error) {
	st, err := r.load(ctx)
	if err != nil {
		return PackEntry{}, false, err
	}
	if _, ok := st.packs[id]; !ok {
		return PackEntry{}, false, nil
	}
	return st.entry(id), true, nil
}

// PrefixMap returns the unambiguous prefixes and the pack each resolves to.
// Overrides are not included.
func (r *Registry) PrefixMap(ctx context.Context) (map[string]resolve.QualifiedID, error) {
	st, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.snapshot.PrefixMap(), nil
}

// Collisions returns every prefix claimed by two or more packs.
func (r *Registry) Collisions(ctx context.Context) (map[string][]resolve.QualifiedID, error) {
	st, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return st.snapshot.Collisions(), nil
}

// Diagnostics returns the problems found by the last build.
func (r *Registry) Diagnostics(ctx context.Context) ([]discovery.Diagnostic, error) {
	st, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(st.diagnostics), nil
}

// Blocked returns the packs excluded by the blocklist in the last build.
func (r *Registry) Blocked(ctx context.Context) ([]resolve.QualifiedID, error) {
	st, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(st.blocked), nil
}

func (r *Registry) load(ctx context.Context) (*state, error) {
	if st := r.current.Load(); st != nil {
		return st, nil
	}

	r.buildMu.Lock()
	defer r.buildMu.Unlock()
	if st := r.current.Load(); st != nil {
		return st, nil
	}

	st, err := r.build(ctx)
	if err != nil {
		return nil, err
	}
	r.current.Store(st)
	return st, nil
}

func (r *Registry) build(ctx context.Context) (*state, error) {
	res, err := discovery.New(r.opts.Blocklist, r.opts.Sources...).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover packs: %w", err)
	}

	snapshot, warnings := resolve.Build(res.Descriptors())

	packs := make(map[resolve.QualifiedID]discovery.Candidate, snapshot.Len())
	for _, c := range res.Candidates {
		id := c.QualifiedID()
		if _, seen := packs[id]; !seen {
			packs[id] = c
		}
	}

	diags := slices.Clone(res.Diagnostics)
	diags = append(diags, discovery.FromWarnings(warnings)...)
	diags = append(diags, collisionDiagnostics(snapshot)...)
	diags = append(diags, r.overrideDiagnostics(snapshot)...)
	for _, d := range diags {
		slog.Debug("discovery diagnostic", "severity", d.Severity, "code", d.Code, "message", d.Message, "path", d.Path)
	}
	slog.Debug("registry built", "packs", snapshot.Len(), "blocked", len(res.Blocked))

	return &state{
		snapshot: snapshot,
		resolver: resolve.Resolver{
			Snapshot:      snapshot,
			Overrides:     r.opts.Overrides,
			DefaultPrefix: r.opts.DefaultPrefix,
		},
		packs:       packs,
		blocked:     res.Blocked,
		diagnostics: diags,
	}, nil
}

func (st *state) resolve(query string) (resolve.Result, error) {
	res, err := st.resolver.Resolve(query)
	if err != nil {
		return resolve.Result{}, resolveError(err, st.snapshot)
	}
	return res, nil
}

func (r *Registry) overrideDiagnostics(s *resolve.Snapshot) []discovery.Diagnostic {
	var out []discovery.Diagnostic
	for _, prefix := range slices.Sorted(maps.Keys(r.opts.Overrides)) {
		id := r.opts.Overrides[prefix]
		if _, ok := s.Pack(id); ok {
			continue
		}
		out = append(out, discovery.Diagnostic{
			Severity:    discovery.SeverityWarning,
			Code:        discovery.CodeUnknownOverride,
			Message:     fmt.Sprintf("prefix_map entry %q points to unknown pack %s", prefix, id),
			QualifiedID: id,
		})
	}
	return out
}

func collisionDiagnostics(s *resolve.Snapshot) []discovery.Diagnostic {
	collisions := s.Collisions()
	var out []discovery.Diagnostic
	for _, prefix := range slices.Sorted(maps.Keys(collisions)) {
		claimants := collisions[prefix]
		out = append(out, discovery.Diagnostic{
			Severity: discovery.SeverityWarning,
			Code:     discovery.CodePrefixCollision,
			Message: fmt.Sprintf("prefix %q is claimed by %d packs (%s); use a qualified name or a prefix_map entry",
				prefix, len(claimants), joinIDs(claimants)),
		})
	}
	return out
}

// entry assembles the PackEntry for a registered id.
func (st *state) entry(id resolve.QualifiedID) PackEntry {
	c := st.packs[id]
	d, _ := st.snapshot.Pack(id)
	prefixes, colliding := st.snapshot.PrefixesFor(id)

	e := PackEntry{
		QualifiedID:  id,
		Distribution: id.Distribution(),
		Name:         d.PackName,
		Aliases:      d.Aliases,
		Priority:     d.Priority,
		Origin:       c.Origin,
		Prefixes:     prefixes,
		Colliding:    colliding,
		Pack:         c.Pack,
	}
	if ip, ok := c.Pack.(resource.InfoProvider); ok {
		e.Info = ip.PackInfo()
	}
	return e
}
