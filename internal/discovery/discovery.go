// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/justmyresource/justmyresource/pkg/resolve"
)

type (
	// Discovery combines sources in order and applies a blocklist.
	Discovery struct {
		sources   []Source
		blocklist Blocklist
	}

	// Result is the outcome of one discovery run.
	Result struct {
		// Candidates are the usable packs in discovery order. Duplicates are
		// kept: deduplication belongs to the snapshot builder.
		Candidates []Candidate
		// Blocked are the qualified ids excluded by the blocklist.
		Blocked []resolve.QualifiedID
		// Diagnostics are returned to the caller instead of being logged.
		Diagnostics []Diagnostic
	}
)

// New creates a Discovery. Sources are consulted in argument order, so
// earlier sources win duplicate qualified ids.
func New(blocklist Blocklist, sources ...Source) *Discovery {
	return &Discovery{sources: sources, blocklist: blocklist}
}

// Run discovers packs from every source. Individual pack failures become
// diagnostics; Run only fails when ctx is cancelled. Empty distributions and
// zero priorities are replaced with their defaults.
func (d *Discovery) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	for _, src := range d.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		candidates, diags := src.Discover(ctx)
		res.Diagnostics = append(res.Diagnostics, diags...)

		for _, c := range candidates {
			if diag, ok := validateCandidate(c); !ok {
				res.Diagnostics = append(res.Diagnostics, diag)
				continue
			}
			if c.Distribution == "" {
				c.Distribution = resolve.UnknownDistribution
			}
			if c.Priority == 0 {
				c.Priority = resolve.DefaultPriority
			}
			id := c.QualifiedID()
			if d.blocklist.Blocks(id, c.Name) {
				slog.Debug("pack blocked", "pack", id)
				res.Blocked = append(res.Blocked, id)
				continue
			}
			res.Candidates = append(res.Candidates, c)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Descriptors returns the snapshot builder input for the candidates.
func (r *Result) Descriptors() []resolve.Descriptor {
	out := make([]resolve.Descriptor, len(r.Candidates))
	for i, c := range r.Candidates {
		out[i] = c.Descriptor()
	}
	return out
}

func validateCandidate(c Candidate) (Diagnostic, bool) {
	switch {
	case c.Name == "":
		return Diagnostic{
			Severity: SeverityError,
			Code:     CodeMissingField,
			Message:  "skipping pack without a name",
			Path:     c.Origin,
		}, false
	case c.Pack == nil:
		return Diagnostic{
			Severity:    SeverityError,
			Code:        CodeMissingField,
			Message:     fmt.Sprintf("skipping pack %s without contents", c.QualifiedID()),
			Path:        c.Origin,
			QualifiedID: c.QualifiedID(),
		}, false
	}
	return Diagnostic{}, true
}
