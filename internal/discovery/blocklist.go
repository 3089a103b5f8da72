// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"slices"
	"strings"

	"github.com/justmyresource/justmyresource/pkg/resolve"
)

// BlockAll is the blocklist entry that disables every discovered pack.
const BlockAll = "*"

// Blocklist excludes packs by qualified id ("acme-icons/lucide") or by short
// pack name ("lucide"). The zero value blocks nothing.
type Blocklist struct {
	entries map[string]struct{}
}

// NewBlocklist builds a Blocklist. Entries are trimmed; empty entries are ignored.
func NewBlocklist(entries ...string) Blocklist {
	b := Blocklist{entries: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e != "" {
			b.entries[e] = struct{}{}
		}
	}
	return b
}

// ParseBlocklist parses a comma-separated list such as
// "lucide, acme-icons/feather".
func ParseBlocklist(csv string) Blocklist {
	return NewBlocklist(strings.Split(csv, ",")...)
}

// Blocks reports whether the pack is excluded.
func (b Blocklist) Blocks(id resolve.QualifiedID, packName string) bool {
	if len(b.entries) == 0 {
		return false
	}
	if _, ok := b.entries[BlockAll]; ok {
		return true
	}
	if _, ok := b.entries[string(id)]; ok {
		return true
	}
	_, ok := b.entries[packName]
	return ok
}

// Len returns the number of entries.
func (b Blocklist) Len() int { return len(b.entries) }

// Entries returns the entries sorted.
func (b Blocklist) Entries() []string {
	out := make([]string, 0, len(b.entries))
	for e := range b.entries {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}
