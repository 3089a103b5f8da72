// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// KindInvalidQuery is an empty query or an empty resource name.
	KindInvalidQuery FailureKind = "invalid_query"
	// KindUnknownPack is a qualified id (or override target) that names no pack.
	KindUnknownPack FailureKind = "unknown_pack"
	// KindUnknownPrefix is a pack name or alias claimed by no pack.
	KindUnknownPrefix FailureKind = "unknown_prefix"
	// KindAmbiguousPrefix is a pack name or alias claimed by two or more packs.
	KindAmbiguousPrefix FailureKind = "ambiguous_prefix"
	// KindNoDefaultPrefix is a bare name resolved without a default prefix.
	KindNoDefaultPrefix FailureKind = "no_default_prefix"
)

var (
	// ErrInvalidQuery is the sentinel error wrapped by InvalidQueryError.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUnknownPack is the sentinel error wrapped by UnknownPackError.
	ErrUnknownPack = errors.New("unknown pack")
	// ErrUnknownPrefix is the sentinel error wrapped by UnknownPrefixError.
	ErrUnknownPrefix = errors.New("unknown prefix")
	// ErrAmbiguousPrefix is the sentinel error wrapped by AmbiguousPrefixError.
	ErrAmbiguousPrefix = errors.New("ambiguous prefix")
	// ErrNoDefaultPrefix is the sentinel error wrapped by NoDefaultPrefixError.
	ErrNoDefaultPrefix = errors.New("no default prefix")
)

type (
	// FailureKind classifies resolution failures for callers that branch on
	// the category rather than the concrete error type.
	FailureKind string

	// InvalidQueryError is returned for an empty query or a query whose
	// resource name (the text after the last colon) is empty.
	InvalidQueryError struct {
		Query  string
		Reason string
	}

	// UnknownPackError is returned when a qualified id names no registered
	// pack. Override is set when the qualified id came from the override map.
	UnknownPackError struct {
		Query       string
		QualifiedID QualifiedID
		Override    string
	}

	// UnknownPrefixError is returned when no pack name or alias matches Prefix.
	UnknownPrefixError struct {
		Query  string
		Prefix string
	}

	// AmbiguousPrefixError is returned when Prefix is claimed by two or more
	// packs. Claimants are in the order the packs were discovered.
	AmbiguousPrefixError struct {
		Query     string
		Prefix    string
		Claimants []QualifiedID
	}

	// NoDefaultPrefixError is returned for a bare name when no default prefix
	// is configured.
	NoDefaultPrefixError struct {
		Query string
	}
)

// String returns the string representation of the FailureKind.
func (k FailureKind) String() string { return string(k) }

// KindOf returns the FailureKind carried by err, or "" when err is not a
// resolution failure.
func KindOf(err error) FailureKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidQuery):
		return KindInvalidQuery
	case errors.Is(err, ErrUnknownPack):
		return KindUnknownPack
	case errors.Is(err, ErrUnknownPrefix):
		return KindUnknownPrefix
	case errors.Is(err, ErrAmbiguousPrefix):
		return KindAmbiguousPrefix
	case errors.Is(err, ErrNoDefaultPrefix):
		return KindNoDefaultPrefix
	default:
		return ""
	}
}

// Error implements the error interface.
func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query %q: %s", e.Query, e.Reason)
}

// Unwrap returns ErrInvalidQuery for errors.Is() compatibility.
func (e *InvalidQueryError) Unwrap() error { return ErrInvalidQuery }

// Error implements the error interface.
func (e *UnknownPackError) Error() string {
	if e.Override != "" {
		return fmt.Sprintf("unknown resource pack %q (prefix override %q)", e.QualifiedID, e.Override)
	}
	return fmt.Sprintf("unknown qualified resource pack %q", e.QualifiedID)
}

// Unwrap returns ErrUnknownPack for errors.Is() compatibility.
func (e *UnknownPackError) Unwrap() error { return ErrUnknownPack }

// Error implements the error interface.
func (e *UnknownPrefixError) Error() string {
	return fmt.Sprintf("unknown resource pack prefix %q", e.Prefix)
}

// Unwrap returns ErrUnknownPrefix for errors.Is() compatibility.
func (e *UnknownPrefixError) Unwrap() error { return ErrUnknownPrefix }

// Error implements the error interface.
func (e *AmbiguousPrefixError) Error() string {
	ids := make([]string, len(e.Claimants))
	for i, id := range e.Claimants {
		ids[i] = string(id)
	}
	return fmt.Sprintf("prefix %q is ambiguous: claimed by %s", e.Prefix, strings.Join(ids, ", "))
}

// Unwrap returns ErrAmbiguousPrefix for errors.Is() compatibility.
func (e *AmbiguousPrefixError) Unwrap() error { return ErrAmbiguousPrefix }

// QualifiedQueries returns the query rewritten with each claimant's qualified
// id, which is what a caller should suggest to disambiguate.
func (e *AmbiguousPrefixError) QualifiedQueries() []string {
	name := e.Query
	if idx := strings.LastIndex(e.Query, Separator); idx >= 0 {
		name = e.Query[idx+len(Separator):]
	}
	out := make([]string, len(e.Claimants))
	for i, id := range e.Claimants {
		out[i] = string(id) + Separator + name
	}
	return out
}

// Error implements the error interface.
func (e *NoDefaultPrefixError) Error() string {
	return fmt.Sprintf("resource %q has no prefix and no default prefix is configured", e.Query)
}

// Unwrap returns ErrNoDefaultPrefix for errors.Is() compatibility.
func (e *NoDefaultPrefixError) Unwrap() error { return ErrNoDefaultPrefix }
