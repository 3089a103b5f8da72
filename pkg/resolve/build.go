// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

const (
	// WarningDuplicatePack marks a descriptor skipped because an earlier one
	// already registered the same qualified id.
	WarningDuplicatePack WarningCode = "duplicate_pack"
	// WarningMissingField marks a descriptor skipped because its qualified id or
	// pack name is empty.
	WarningMissingField WarningCode = "missing_field"
	// WarningInvalidID marks a descriptor skipped because its qualified id is
	// not of the form "distribution/pack".
	WarningInvalidID WarningCode = "invalid_id"
	// WarningUnusableAlias marks an alias that was not registered because it is
	// empty or contains a slash (slash prefixes are always read as qualified ids).
	WarningUnusableAlias WarningCode = "unusable_alias"
)

type (
	// WarningCode is a machine-readable identifier for a build warning.
	WarningCode string

	// Warning is a non-fatal problem found while building a Snapshot.
	Warning struct {
		Code        WarningCode
		QualifiedID QualifiedID
		Message     string
	}

	// Entry is one prefix map slot. Exactly one of ID or Claimants is set:
	// ID for a prefix claimed by a single pack, Claimants (two or more, in
	// first-encounter order) for a collision.
	Entry struct {
		ID        QualifiedID
		Claimants []QualifiedID
	}

	// Snapshot is the immutable output of Build. All accessors return copies.
	Snapshot struct {
		packs      map[QualifiedID]Descriptor
		order      []QualifiedID
		prefixes   map[string]Entry
		collisions map[string][]QualifiedID
	}
)

// String returns the string representation of the WarningCode.
func (c WarningCode) String() string { return string(c) }

// String renders the warning for logs.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// IsCollision reports whether the prefix is claimed by two or more packs.
func (e Entry) IsCollision() bool { return len(e.Claimants) > 1 }

// Build creates a Snapshot from descriptors in discovery order. Build never
// fails: duplicate qualified ids, malformed qualified ids, and incomplete
// descriptors are skipped and
// reported as warnings, and prefix collisions are recorded in the snapshot for
// resolution time.
func Build(descriptors []Descriptor) (*Snapshot, []Warning) {
	s := &Snapshot{
		packs:      make(map[QualifiedID]Descriptor, len(descriptors)),
		order:      make([]QualifiedID, 0, len(descriptors)),
		prefixes:   make(map[string]Entry),
		collisions: make(map[string][]QualifiedID),
	}
	var warnings []Warning

	for _, d := range descriptors {
		if d.QualifiedID == "" || d.PackName == "" {
			warnings = append(warnings, Warning{
				Code:        WarningMissingField,
				QualifiedID: d.QualifiedID,
				Message:     fmt.Sprintf("pack %q skipped: qualified id and pack name are required", describe(d)),
			})
			continue
		}
		if err := d.QualifiedID.Validate(); err != nil {
			warnings = append(warnings, Warning{
				Code:        WarningInvalidID,
				QualifiedID: d.QualifiedID,
				Message:     fmt.Sprintf("pack %q skipped: %v", d.PackName, err),
			})
			continue
		}
		if _, exists := s.packs[d.QualifiedID]; exists {
			warnings = append(warnings, Warning{
				Code:        WarningDuplicatePack,
				QualifiedID: d.QualifiedID,
				Message:     fmt.Sprintf("pack %q registered more than once; keeping the first registration", d.QualifiedID),
			})
			continue
		}
		s.packs[d.QualifiedID] = d.clone()
		s.order = append(s.order, d.QualifiedID)
	}

	// Claims are collected per prefix in first-encounter order before any
	// collision is decided, so the claimant order only depends on input order.
	claims := make(map[string][]QualifiedID)
	var claimOrder []string
	claim := func(prefix string, id QualifiedID) {
		existing, seen := claims[prefix]
		if !seen {
			claimOrder = append(claimOrder, prefix)
		}
		if slices.Contains(existing, id) {
			return
		}
		claims[prefix] = append(existing, id)
	}

	for _, id := range s.order {
		d := s.packs[id]
		if !strings.Contains(d.PackName, QualifiedSeparator) {
			claim(d.PackName, id)
		}
		for _, alias := range d.Aliases {
			if alias == "" || strings.Contains(alias, QualifiedSeparator) {
				warnings = append(warnings, Warning{
					Code:        WarningUnusableAlias,
					QualifiedID: id,
					Message:     fmt.Sprintf("pack %q: alias %q ignored (aliases must be non-empty and must not contain %q)", id, alias, QualifiedSeparator),
				})
				continue
			}
			claim(alias, id)
		}
	}

	for _, prefix := range claimOrder {
		ids := claims[prefix]
		if len(ids) == 1 {
			s.prefixes[prefix] = Entry{ID: ids[0]}
			continue
		}
		s.prefixes[prefix] = Entry{Claimants: ids}
		s.collisions[prefix] = ids
	}

	// Qualified ids always contain a slash and names and aliases never do, so
	// a qualified id cannot be claimed by anything but its own pack.
	for _, id := range s.order {
		s.prefixes[string(id)] = Entry{ID: id}
	}

	return s, warnings
}

// Len returns the number of registered packs.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Pack returns the descriptor registered under id.
func (s *Snapshot) Pack(id QualifiedID) (Descriptor, bool) {
	if s == nil {
		return Descriptor{}, false
	}
	d, ok := s.packs[id]
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}

// Packs returns all registered descriptors in registration order.
func (s *Snapshot) Packs() []Descriptor {
	if s == nil {
		return nil
	}
	out := make([]Descriptor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.packs[id].clone())
	}
	return out
}

// QualifiedIDs returns the registered qualified ids sorted lexically.
func (s *Snapshot) QualifiedIDs() []QualifiedID {
	if s == nil {
		return nil
	}
	out := slices.Clone(s.order)
	slices.Sort(out)
	return out
}

// Lookup returns the prefix map entry for prefix.
func (s *Snapshot) Lookup(prefix string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	e, ok := s.prefixes[prefix]
	if !ok {
		return Entry{}, false
	}
	return Entry{ID: e.ID, Claimants: slices.Clone(e.Claimants)}, true
}

// PrefixMap returns every unambiguous prefix and the pack it addresses.
// Colliding prefixes are reported by Collisions instead.
func (s *Snapshot) PrefixMap() map[string]QualifiedID {
	if s == nil {
		return map[string]QualifiedID{}
	}
	out := make(map[string]QualifiedID, len(s.prefixes))
	for prefix, e := range s.prefixes {
		if !e.IsCollision() {
			out[prefix] = e.ID
		}
	}
	return out
}

// Collisions returns every ambiguous prefix with its claimants in
// first-encounter order.
func (s *Snapshot) Collisions() map[string][]QualifiedID {
	if s == nil {
		return map[string][]QualifiedID{}
	}
	out := make(map[string][]QualifiedID, len(s.collisions))
	for prefix, ids := range s.collisions {
		out[prefix] = slices.Clone(ids)
	}
	return out
}

// PrefixesFor returns the unambiguous and the colliding prefixes that name id,
// each sorted lexically.
func (s *Snapshot) PrefixesFor(id QualifiedID) (prefixes, colliding []string) {
	if s == nil {
		return nil, nil
	}
	for prefix, e := range s.prefixes {
		switch {
		case e.IsCollision() && slices.Contains(e.Claimants, id):
			colliding = append(colliding, prefix)
		case !e.IsCollision() && e.ID == id:
			prefixes = append(prefixes, prefix)
		}
	}
	sort.Strings(prefixes)
	sort.Strings(colliding)
	return prefixes, colliding
}

func describe(d Descriptor) string {
	if d.QualifiedID != "" {
		return string(d.QualifiedID)
	}
	if d.PackName != "" {
		return d.PackName
	}
	return "<unnamed>"
}
