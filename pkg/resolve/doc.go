// SPDX-License-Identifier: MPL-2.0

// Package resolve maps resource queries onto registered packs.
//
// The package has two halves:
//   - Build turns an ordered list of pack descriptors into an immutable Snapshot
//     holding the pack table, the prefix map, and the prefix collisions.
//   - Resolve maps a query such as "lucide:lightbulb" onto a (qualified id,
//     resource name) pair using a Snapshot, an override map, and an optional
//     default prefix.
//
// Both halves are pure: they never perform I/O, never log, and only read their
// arguments. A Snapshot may be shared between goroutines without locking.
//
// Three addressing forms are accepted:
//
//	acme-icons/lucide:bulb   qualified id, always unambiguous
//	lucide:bulb              pack name
//	luc:bulb                 alias declared by the pack
//
// A prefix claimed by more than one pack never resolves to a guessed winner;
// it fails with *AmbiguousPrefixError until an override or the qualified form
// disambiguates it.
package resolve
