// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/justmyresource/justmyresource/internal/issue"
	"github.com/justmyresource/justmyresource/pkg/pack"
	"github.com/justmyresource/justmyresource/pkg/resolve"
	"github.com/justmyresource/justmyresource/pkg/resource"
)

// resolveError wraps a resolution failure with suggestions computed from the
// snapshot it failed against.
func resolveError(err error, s *resolve.Snapshot) error {
	var (
		invalid   *resolve.InvalidQueryError
		ambiguous *resolve.AmbiguousPrefixError
		prefix    *resolve.UnknownPrefixError
		unknown   *resolve.UnknownPackError
		noDefault *resolve.NoDefaultPrefixError
	)

	ec := issue.NewErrorContext().WithOperation("resolve resource").Wrap(err)

	switch {
	case errors.As(err, &ambiguous):
		ec.WithResource(ambiguous.Query).WithIssue(issue.AmbiguousPrefixId)
		for _, q := range ambiguous.QualifiedQueries() {
			ec.WithSuggestion("Use the qualified name: " + q)
		}
		ec.WithSuggestion(fmt.Sprintf("Or pin the prefix in your config: prefix_map: %q: %q",
			ambiguous.Prefix, ambiguous.Claimants[0]))

	case errors.As(err, &prefix):
		ec.WithResource(prefix.Query).WithIssue(issue.UnknownPrefixId)
		for _, near := range pack.Suggest(prefix.Prefix, slices.Sorted(maps.Keys(s.PrefixMap()))) {
			ec.WithSuggestion(fmt.Sprintf("Did you mean %q?", near))
		}
		ec.WithSuggestion("List the available prefixes with: justmyresource packs --verbose")

	case errors.As(err, &unknown):
		ec.WithResource(unknown.Query).WithIssue(issue.PackNotFoundId)
		if unknown.Override != "" {
			ec.WithSuggestion(fmt.Sprintf("Fix or remove the prefix_map entry %q", unknown.Override))
		}
		for _, near := range pack.Suggest(string(unknown.QualifiedID), idStrings(s.QualifiedIDs())) {
			ec.WithSuggestion(fmt.Sprintf("Did you mean %q?", near))
		}
		ec.WithSuggestion("List the registered packs with: justmyresource packs")

	case errors.As(err, &noDefault):
		ec.WithResource(noDefault.Query).WithIssue(issue.NoDefaultPrefixId).
			WithSuggestion("Add a prefix, e.g. <pack>:" + noDefault.Query).
			WithSuggestion("Or set default_prefix in your config or RESOURCE_DEFAULT_PREFIX")

	case errors.As(err, &invalid):
		ec.WithResource(invalid.Query).WithIssue(issue.InvalidQueryId).
			WithSuggestion("Queries look like <prefix>:<name>, <distribution>/<pack>:<name>, or <name>")
	}

	return ec.BuildError()
}

// fetchError wraps a pack failure for a resolved query.
func fetchError(err error, res resolve.Result, query string) error {
	ec := issue.NewErrorContext().WithOperation("get resource").WithResource(query).Wrap(err)

	var nf *resource.NotFoundError
	if errors.As(err, &nf) {
		ec.WithIssue(issue.ResourceNotFoundId)
		for _, s := range nf.Suggestions {
			ec.WithSuggestion(fmt.Sprintf("Did you mean %q?", string(res.QualifiedID)+resolve.Separator+s))
		}
		ec.WithSuggestion(fmt.Sprintf("List the pack with: justmyresource list --pack %s", res.QualifiedID))
	} else if errors.Is(err, resource.ErrResourceNotFound) {
		ec.WithIssue(issue.ResourceNotFoundId)
	}
	return ec.BuildError()
}

func idStrings(ids []resolve.QualifiedID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func joinIDs(ids []resolve.QualifiedID) string {
	return strings.Join(idStrings(ids), ", ")
}
