// SPDX-License-Identifier: MPL-2.0

// Package resource defines the values exchanged between packs and callers:
// the Pack capability interface, the immutable Content returned by a fetch,
// and the lightweight Info and PackInfo metadata used for listings.
package resource
