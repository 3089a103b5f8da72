// SPDX-License-Identifier: MPL-2.0

// Package registry is the caller-facing lookup API. A Registry discovers packs
// on first use, builds an immutable resolve.Snapshot, and publishes it with a
// single atomic store so readers never observe a partially built state.
//
// Resolution failures are returned as *issue.ActionableError values whose
// cause is the typed error from package resolve, so callers can use both
// errors.As(err, *resolve.AmbiguousPrefixError) and the attached suggestions.
package registry
