// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"slices"

	"github.com/justmyresource/justmyresource/pkg/resolve"
	"github.com/justmyresource/justmyresource/pkg/resource"
)

type (
	// Source produces pack candidates. Problems with individual packs are
	// reported as diagnostics; a Source never fails as a whole.
	Source interface {
		Discover(ctx context.Context) ([]Candidate, []Diagnostic)
	}

	// Candidate is a discovered pack before deduplication.
	Candidate struct {
		// Distribution ships the pack; empty becomes resolve.UnknownDistribution.
		Distribution string
		// Name is the short pack name.
		Name string
		// Aliases are additional prefixes.
		Aliases []string
		// Priority is informational; zero becomes resolve.DefaultPriority.
		Priority int
		// Pack serves the resources.
		Pack resource.Pack
		// Origin is where the pack was found, for diagnostics and display.
		Origin string
	}

	// StaticSource registers packs built in code, in slice order.
	StaticSource []Candidate
)

// QualifiedID returns "distribution/name".
func (c Candidate) QualifiedID() resolve.QualifiedID {
	return resolve.NewQualifiedID(c.Distribution, c.Name)
}

// Descriptor returns the identity the snapshot builder sees.
func (c Candidate) Descriptor() resolve.Descriptor {
	return resolve.Descriptor{
		QualifiedID: c.QualifiedID(),
		PackName:    c.Name,
		Aliases:     slices.Clone(c.Aliases),
		Priority:    c.Priority,
	}
}

// Discover returns a copy of the registered candidates.
func (s StaticSource) Discover(ctx context.Context) ([]Candidate, []Diagnostic) {
	if ctx.Err() != nil {
		return nil, nil
	}
	out := make([]Candidate, len(s))
	for i, c := range s {
		c.Aliases = slices.Clone(c.Aliases)
		if c.Origin == "" {
			c.Origin = "static"
		}
		out[i] = c
	}
	return out, nil
}
