// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// Separator splits a query into prefix and resource name. Queries are split
	// on its last occurrence.
	Separator = ":"

	// QualifiedSeparator joins distribution and pack name in a QualifiedID.
	QualifiedSeparator = "/"

	// UnknownDistribution is used when a pack does not declare its distribution.
	UnknownDistribution = "unknown"

	// DefaultPriority is the priority assigned to packs that do not declare one.
	DefaultPriority = 100
)

var (
	// ErrInvalidQualifiedID is the sentinel error wrapped by InvalidQualifiedIDError.
	ErrInvalidQualifiedID = errors.New("invalid qualified id")

	// qualifiedIDPattern accepts "<distribution>/<pack>" where neither half is empty
	// or contains a slash, a colon, or whitespace.
	qualifiedIDPattern = regexp.MustCompile(`^[^/:\s]+/[^/:\s]+$`)
)

type (
	// QualifiedID is the globally unique "distribution/pack" identifier of a pack.
	QualifiedID string

	// InvalidQualifiedIDError is returned when a QualifiedID is not of the form
	// "distribution/pack". It wraps ErrInvalidQualifiedID for errors.Is().
	InvalidQualifiedIDError struct {
		Value QualifiedID
	}

	// Descriptor is the identity metadata of one discovered pack. It is all the
	// kernel ever sees of a pack; the pack implementation itself stays with the
	// caller.
	Descriptor struct {
		// QualifiedID is the primary key ("acme-icons/lucide").
		QualifiedID QualifiedID
		// PackName is the short name, unique only within its distribution ("lucide").
		PackName string
		// Aliases are additional prefixes declared by the pack, in declaration order.
		Aliases []string
		// Priority is informational. It never selects a winner on collision.
		Priority int
	}

	// Result is a successful resolution.
	Result struct {
		QualifiedID  QualifiedID
		ResourceName string
	}
)

// NewQualifiedID joins a distribution and a pack name. An empty distribution is
// replaced with UnknownDistribution.
func NewQualifiedID(distribution, packName string) QualifiedID {
	if distribution == "" {
		distribution = UnknownDistribution
	}
	return QualifiedID(distribution + QualifiedSeparator + packName)
}

// String returns the string representation of the QualifiedID.
func (q QualifiedID) String() string { return string(q) }

// Distribution returns the part before the slash.
func (q QualifiedID) Distribution() string {
	dist, _, _ := strings.Cut(string(q), QualifiedSeparator)
	return dist
}

// PackName returns the part after the slash.
func (q QualifiedID) PackName() string {
	_, name, _ := strings.Cut(string(q), QualifiedSeparator)
	return name
}

// Validate returns nil if the QualifiedID has the form "distribution/pack".
func (q QualifiedID) Validate() error {
	if !qualifiedIDPattern.MatchString(string(q)) {
		return &InvalidQualifiedIDError{Value: q}
	}
	return nil
}

// Error implements the error interface for InvalidQualifiedIDError.
func (e *InvalidQualifiedIDError) Error() string {
	return fmt.Sprintf(
		"invalid qualified id %q: must be <distribution>/<pack> without colons or whitespace",
		string(e.Value),
	)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidQualifiedIDError) Unwrap() error {
	return ErrInvalidQualifiedID
}

// String renders the result in query form ("dist/pack:name").
func (r Result) String() string {
	return string(r.QualifiedID) + Separator + r.ResourceName
}

// clone returns a copy that shares no slices with d.
func (d Descriptor) clone() Descriptor {
	out := d
	if d.Aliases != nil {
		out.Aliases = append([]string(nil), d.Aliases...)
	}
	return out
}
