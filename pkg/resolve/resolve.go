// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"slices"
	"strings"
)

// Resolver bundles the inputs of Resolve that stay fixed between queries.
// The zero value resolves nothing but qualified ids against an empty snapshot.
type Resolver struct {
	Snapshot      *Snapshot
	Overrides     map[string]QualifiedID
	DefaultPrefix string
}

// Resolve resolves query against r's snapshot, overrides, and default prefix.
func (r Resolver) Resolve(query string) (Result, error) {
	return Resolve(r.Snapshot, r.Overrides, r.DefaultPrefix, query)
}

// Resolve maps query onto a pack and a resource name.
//
// The query is split on its last colon. A prefix containing a slash is a
// qualified id and must name a registered pack. Any other prefix is looked up
// in overrides first and in the snapshot's prefix map second. A query without
// a colon is rewritten to "<defaultPrefix>:<query>" and resolved once more;
// an empty defaultPrefix means no default is configured.
//
// Resolve performs no I/O and returns identical results for identical
// arguments. Failures are one of *InvalidQueryError, *UnknownPackError,
// *UnknownPrefixError, *AmbiguousPrefixError, or *NoDefaultPrefixError.
func Resolve(s *Snapshot, overrides map[string]QualifiedID, defaultPrefix, query string) (Result, error) {
	if query == "" {
		return Result{}, &InvalidQueryError{Query: query, Reason: "query is empty"}
	}

	idx := strings.LastIndex(query, Separator)
	if idx < 0 {
		if defaultPrefix == "" {
			return Result{}, &NoDefaultPrefixError{Query: query}
		}
		// The rewritten query always contains a separator, so this cannot
		// recurse a second time.
		return resolvePrefixed(s, overrides, query, defaultPrefix, query)
	}

	return resolvePrefixed(s, overrides, query, query[:idx], query[idx+len(Separator):])
}

// resolvePrefixed resolves an already split query. query is the caller's
// original text and is only used for error reporting.
func resolvePrefixed(s *Snapshot, overrides map[string]QualifiedID, query, prefix, name string) (Result, error) {
	if name == "" {
		return Result{}, &InvalidQueryError{Query: query, Reason: "resource name is empty"}
	}

	if strings.Contains(prefix, QualifiedSeparator) {
		id := QualifiedID(prefix)
		if _, ok := s.Pack(id); !ok {
			return Result{}, &UnknownPackError{Query: query, QualifiedID: id}
		}
		return Result{QualifiedID: id, ResourceName: name}, nil
	}

	if id, ok := overrides[prefix]; ok {
		if _, exists := s.Pack(id); !exists {
			return Result{}, &UnknownPackError{Query: query, QualifiedID: id, Override: prefix}
		}
		return Result{QualifiedID: id, ResourceName: name}, nil
	}

	entry, ok := s.Lookup(prefix)
	switch {
	case !ok:
		return Result{}, &UnknownPrefixError{Query: query, Prefix: prefix}
	case entry.IsCollision():
		return Result{}, &AmbiguousPrefixError{
			Query:     query,
			Prefix:    prefix,
			Claimants: slices.Clone(entry.Claimants),
		}
	default:
		return Result{QualifiedID: entry.ID, ResourceName: name}, nil
	}
}
