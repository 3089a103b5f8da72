// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func scenarioSnapshot(t *testing.T) *Snapshot {
	t.Helper()

	snap, warnings := Build([]Descriptor{
		{QualifiedID: "acme-icons/lucide", PackName: "lucide", Aliases: []string{"luc"}, Priority: 100},
		{QualifiedID: "cool-icons/lucide", PackName: "lucide", Priority: 100},
		{QualifiedID: "acme-icons/feather", PackName: "feather", Aliases: []string{"fe"}, Priority: 50},
	})
	if len(warnings) != 0 {
		t.Fatalf("Build() warnings = %v, want none", warnings)
	}
	return snap
}

func TestResolve(t *testing.T) {
	t.Parallel()

	snap := scenarioSnapshot(t)

	tests := []struct {
		name          string
		overrides     map[string]QualifiedID
		defaultPrefix string
		query         string
		want          Result
		wantKind      FailureKind
	}{
		{
			name:  "qualified id",
			query: "acme-icons/lucide:lightbulb",
			want:  Result{QualifiedID: "acme-icons/lucide", ResourceName: "lightbulb"},
		},
		{
			name:  "other qualified id with same pack name",
			query: "cool-icons/lucide:lightbulb",
			want:  Result{QualifiedID: "cool-icons/lucide", ResourceName: "lightbulb"},
		},
		{
			name:  "unique short name",
			query: "feather:arrow",
			want:  Result{QualifiedID: "acme-icons/feather", ResourceName: "arrow"},
		},
		{
			name:  "alias",
			query: "luc:home",
			want:  Result{QualifiedID: "acme-icons/lucide", ResourceName: "home"},
		},
		{
			name:     "ambiguous short name",
			query:    "lucide:lightbulb",
			wantKind: KindAmbiguousPrefix,
		},
		{
			name:      "override breaks collision",
			overrides: map[string]QualifiedID{"lucide": "cool-icons/lucide"},
			query:     "lucide:lightbulb",
			want:      Result{QualifiedID: "cool-icons/lucide", ResourceName: "lightbulb"},
		},
		{
			name:      "override beats unique prefix",
			overrides: map[string]QualifiedID{"feather": "acme-icons/lucide"},
			query:     "feather:arrow",
			want:      Result{QualifiedID: "acme-icons/lucide", ResourceName: "arrow"},
		},
		{
			name:      "override does not apply to qualified id",
			overrides: map[string]QualifiedID{"acme-icons/lucide": "cool-icons/lucide"},
			query:     "acme-icons/lucide:x",
			want:      Result{QualifiedID: "acme-icons/lucide", ResourceName: "x"},
		},
		{
			name:      "override to missing pack",
			overrides: map[string]QualifiedID{"gone": "nowhere/gone"},
			query:     "gone:x",
			wantKind:  KindUnknownPack,
		},
		{
			name:     "unknown qualified id",
			query:    "nobody/lucide:x",
			wantKind: KindUnknownPack,
		},
		{
			name:     "unknown prefix",
			query:    "nosuch:x",
			wantKind: KindUnknownPrefix,
		},
		{
			name:     "empty query",
			query:    "",
			wantKind: KindInvalidQuery,
		},
		{
			name:     "empty resource name",
			query:    "feather:",
			wantKind: KindInvalidQuery,
		},
		{
			name:     "bare name without default",
			query:    "lightbulb",
			wantKind: KindNoDefaultPrefix,
		},
		{
			name:          "bare name with default",
			defaultPrefix: "feather",
			query:         "arrow",
			want:          Result{QualifiedID: "acme-icons/feather", ResourceName: "arrow"},
		},
		{
			name:          "bare name with qualified default",
			defaultPrefix: "cool-icons/lucide",
			query:         "lightbulb",
			want:          Result{QualifiedID: "cool-icons/lucide", ResourceName: "lightbulb"},
		},
		{
			name:          "bare name with ambiguous default",
			defaultPrefix: "lucide",
			query:         "lightbulb",
			wantKind:      KindAmbiguousPrefix,
		},
		{
			name:          "bare name with overridden default",
			defaultPrefix: "lucide",
			overrides:     map[string]QualifiedID{"lucide": "acme-icons/lucide"},
			query:         "lightbulb",
			want:          Result{QualifiedID: "acme-icons/lucide", ResourceName: "lightbulb"},
		},
		{
			// "feather:ns" is the prefix, which nothing claims.
			name:     "split on last colon",
			query:    "feather:ns:icon",
			wantKind: KindUnknownPrefix,
		},
		{
			name:  "nested resource name",
			query: "acme-icons/lucide:outlined/home.svg",
			want:  Result{QualifiedID: "acme-icons/lucide", ResourceName: "outlined/home.svg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Resolve(snap, tt.overrides, tt.defaultPrefix, tt.query)
			if tt.wantKind != "" {
				if err == nil {
					t.Fatalf("Resolve(%q) = %v, want %s error", tt.query, got, tt.wantKind)
				}
				if kind := KindOf(err); kind != tt.wantKind {
					t.Errorf("KindOf(%v) = %q, want %q", err, kind, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.query, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestResolve_AmbiguousPayload(t *testing.T) {
	t.Parallel()

	snap := scenarioSnapshot(t)

	_, err := Resolve(snap, nil, "", "lucide:lightbulb")
	var ambiguous *AmbiguousPrefixError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Resolve() error = %T %v, want *AmbiguousPrefixError", err, err)
	}
	if !errors.Is(err, ErrAmbiguousPrefix) {
		t.Error("error does not wrap ErrAmbiguousPrefix")
	}
	if ambiguous.Prefix != "lucide" || ambiguous.Query != "lucide:lightbulb" {
		t.Errorf("payload = %+v, want prefix lucide and original query", ambiguous)
	}
	if diff := cmp.Diff([]QualifiedID{"acme-icons/lucide", "cool-icons/lucide"}, ambiguous.Claimants); diff != "" {
		t.Errorf("Claimants mismatch (-want +got):\n%s", diff)
	}
	wantQueries := []string{"acme-icons/lucide:lightbulb", "cool-icons/lucide:lightbulb"}
	if diff := cmp.Diff(wantQueries, ambiguous.QualifiedQueries()); diff != "" {
		t.Errorf("QualifiedQueries() mismatch (-want +got):\n%s", diff)
	}

	for _, suggestion := range ambiguous.QualifiedQueries() {
		if _, err := Resolve(snap, nil, "", suggestion); err != nil {
			t.Errorf("suggested query %q does not resolve: %v", suggestion, err)
		}
	}
}

func TestResolve_BareNameErrorsCarryOriginalQuery(t *testing.T) {
	t.Parallel()

	snap := scenarioSnapshot(t)

	_, err := Resolve(snap, nil, "lucide", "lightbulb")
	var ambiguous *AmbiguousPrefixError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Resolve() error = %v, want *AmbiguousPrefixError", err)
	}
	if ambiguous.Query != "lightbulb" {
		t.Errorf("Query = %q, want %q", ambiguous.Query, "lightbulb")
	}
	want := []string{"acme-icons/lucide:lightbulb", "cool-icons/lucide:lightbulb"}
	if diff := cmp.Diff(want, ambiguous.QualifiedQueries()); diff != "" {
		t.Errorf("QualifiedQueries() mismatch (-want +got):\n%s", diff)
	}

	_, err = Resolve(snap, nil, "nosuch", "lightbulb")
	var unknown *UnknownPrefixError
	if !errors.As(err, &unknown) {
		t.Fatalf("Resolve() error = %v, want *UnknownPrefixError", err)
	}
	if unknown.Prefix != "nosuch" || unknown.Query != "lightbulb" {
		t.Errorf("payload = %+v, want prefix nosuch and query lightbulb", unknown)
	}
}

func TestResolve_OverrideErrorNamesOverride(t *testing.T) {
	t.Parallel()

	snap := scenarioSnapshot(t)

	_, err := Resolve(snap, map[string]QualifiedID{"icons": "gone/icons"}, "", "icons:x")
	var unknown *UnknownPackError
	if !errors.As(err, &unknown) {
		t.Fatalf("Resolve() error = %v, want *UnknownPackError", err)
	}
	if unknown.Override != "icons" || unknown.QualifiedID != "gone/icons" {
		t.Errorf("payload = %+v, want override icons -> gone/icons", unknown)
	}
}

func TestResolve_QualifiedFormAlwaysWorks(t *testing.T) {
	t.Parallel()

	snap := scenarioSnapshot(t)
	overrides := map[string]QualifiedID{
		"lucide":  "acme-icons/feather",
		"feather": "cool-icons/lucide",
	}

	for _, id := range snap.QualifiedIDs() {
		got, err := Resolve(snap, overrides, "lucide", string(id)+":name")
		if err != nil {
			t.Errorf("Resolve(%s:name) error = %v", id, err)
			continue
		}
		if got.QualifiedID != id || got.ResourceName != "name" {
			t.Errorf("Resolve(%s:name) = %v, want %s:name", id, got, id)
		}
	}
}

func TestResolve_Deterministic(t *testing.T) {
	t.Parallel()

	snap := scenarioSnapshot(t)
	queries := []string{"lucide:a", "luc:a", "feather:b", "x", "nosuch:y", "acme-icons/lucide:z"}

	for _, q := range queries {
		firstResult, firstErr := Resolve(snap, nil, "feather", q)
		for range 10 {
			got, err := Resolve(snap, nil, "feather", q)
			if got != firstResult {
				t.Fatalf("Resolve(%q) = %v, earlier %v", q, got, firstResult)
			}
			if (err == nil) != (firstErr == nil) || (err != nil && err.Error() != firstErr.Error()) {
				t.Fatalf("Resolve(%q) error = %v, earlier %v", q, err, firstErr)
			}
		}
	}
}

func TestResolve_NilSnapshot(t *testing.T) {
	t.Parallel()

	_, err := Resolve(nil, nil, "", "a/b:c")
	if !errors.Is(err, ErrUnknownPack) {
		t.Errorf("Resolve() on nil snapshot error = %v, want ErrUnknownPack", err)
	}
}

func TestResolver(t *testing.T) {
	t.Parallel()

	r := Resolver{
		Snapshot:      scenarioSnapshot(t),
		Overrides:     map[string]QualifiedID{"lucide": "acme-icons/lucide"},
		DefaultPrefix: "lucide",
	}

	got, err := r.Resolve("lightbulb")
	if err != nil {
		t.Fatalf("Resolver.Resolve() error = %v", err)
	}
	if got.String() != "acme-icons/lucide:lightbulb" {
		t.Errorf("Resolver.Resolve() = %q, want %q", got.String(), "acme-icons/lucide:lightbulb")
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want FailureKind
	}{
		{nil, ""},
		{errors.New("other"), ""},
		{&InvalidQueryError{}, KindInvalidQuery},
		{&UnknownPackError{}, KindUnknownPack},
		{&UnknownPrefixError{}, KindUnknownPrefix},
		{&AmbiguousPrefixError{}, KindAmbiguousPrefix},
		{&NoDefaultPrefixError{}, KindNoDefaultPrefix},
	}

	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
