// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	PackNotFoundId Id = iota + 1
	AmbiguousPrefixId
	UnknownPrefixId
	NoDefaultPrefixId
	InvalidQueryId
	ResourceNotFoundId
	ConfigLoadFailedId
	InvalidManifestId
	PackLoadFailedId
)

type (
	// Id identifies a catalog page.
	Id int

	// MarkdownMsg is the Markdown body of a page.
	MarkdownMsg string

	// HttpLink is an external reference shown under "See also".
	HttpLink string

	// Issue is one catalog page of extended guidance for a failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		extLinks []HttpLink
	}
)

var (
	render = glamour.Render

	packNotFoundIssue = &Issue{
		id: PackNotFoundId,
		mdMsg: `
# Resource pack not found!

The qualified pack name does not match any discovered pack.

## Things you can try:
- List the packs that were discovered:
~~~
$ justmyresource packs --verbose
~~~

- Check that the pack directory ends with ` + "`.jmrpack`" + ` and lives in a search path
- Check ` + "`RESOURCE_DISCOVERY_BLOCKLIST`" + ` and the ` + "`blocklist`" + ` config key
- If the name came from ` + "`prefix_map`" + `, fix the mapping target`,
	}

	ambiguousPrefixIssue = &Issue{
		id: AmbiguousPrefixId,
		mdMsg: `
# Ambiguous prefix!

Two or more packs claim the same short name or alias, so none of them is
picked automatically.

## Things you can try:
- Use the qualified name instead:
~~~
$ justmyresource get acme-icons/lucide:lightbulb
~~~

- Pin the prefix to one pack in your config:
~~~cue
prefix_map: {
	lucide: "acme-icons/lucide"
}
~~~

- Or for one invocation:
~~~
$ RESOURCE_PREFIX_MAP="lucide=acme-icons/lucide" justmyresource get lucide:lightbulb
~~~`,
	}

	unknownPrefixIssue = &Issue{
		id: UnknownPrefixId,
		mdMsg: `
# Unknown prefix!

No pack name or alias matches the part before the last ` + "`:`" + `.

## Things you can try:
- Show every prefix and the pack it addresses:
~~~
$ justmyresource packs --verbose
~~~

- Check the spelling; prefixes are case-sensitive
- Add a pack directory to the search path with ` + "`--pack-path`" + ``,
	}

	noDefaultPrefixIssue = &Issue{
		id: NoDefaultPrefixId,
		mdMsg: `
# No default prefix!

The name has no prefix and no default prefix is configured.

## Things you can try:
- Add a prefix:
~~~
$ justmyresource get lucide:lightbulb
~~~

- Configure a default prefix:
~~~cue
default_prefix: "lucide"
~~~`,
	}

	invalidQueryIssue = &Issue{
		id: InvalidQueryId,
		mdMsg: `
# Invalid resource name!

A resource name has the form ` + "`[prefix:]name`" + ` and the name after the
last ` + "`:`" + ` must not be empty.`,
	}

	resourceNotFoundIssue = &Issue{
		id: ResourceNotFoundId,
		mdMsg: `
# Resource not found!

The pack was found but it has no resource of that name.

## Things you can try:
- List the resources of the pack:
~~~
$ justmyresource list --pack lucide --filter 'light*'
~~~

- Include the file extension if the pack does not add one`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show where the file is expected:
~~~
$ justmyresource config path
~~~

- Write a fresh default file:
~~~
$ justmyresource config init
~~~`,
	}

	invalidManifestIssue = &Issue{
		id: InvalidManifestId,
		mdMsg: `
# Invalid pack manifest!

A pack manifest (pack.cue, pack_manifest.json, pack.yaml, or pack.toml)
does not match the manifest schema. The pack was skipped.

## Example pack.cue:
~~~cue
distribution: "acme-icons"
name:         "lucide"
aliases: ["luc"]
version:      "1.0.0"
content_type: "image/svg+xml"
~~~`,
	}

	packLoadFailedIssue = &Issue{
		id: PackLoadFailedId,
		mdMsg: `
# Failed to load a pack!

A pack directory was found but could not be opened. The pack was skipped.

## Things you can try:
- Check that it has a ` + "`resources/`" + ` directory or a ` + "`resources.zip`" + ` archive
- Run with ` + "`--verbose`" + ` to see the underlying error`,
	}

	issues = map[Id]*Issue{
		packNotFoundIssue.Id():     packNotFoundIssue,
		ambiguousPrefixIssue.Id():  ambiguousPrefixIssue,
		unknownPrefixIssue.Id():    unknownPrefixIssue,
		noDefaultPrefixIssue.Id():  noDefaultPrefixIssue,
		invalidQueryIssue.Id():     invalidQueryIssue,
		resourceNotFoundIssue.Id(): resourceNotFoundIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		invalidManifestIssue.Id():  invalidManifestIssue,
		packLoadFailedIssue.Id():   packLoadFailedIssue,
	}
)

// Id returns the page identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// ExtLinks returns a copy of the external links.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the page for a terminal with the given glamour style
// ("dark", "light", "notty", "auto", or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

// Values returns every page ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the page for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
