// SPDX-License-Identifier: MPL-2.0

package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrResourceNotFound is the sentinel error wrapped by NotFoundError.
var ErrResourceNotFound = errors.New("resource not found")

type (
	// Pack fetches resources by name. Implementations must be safe for
	// concurrent use.
	Pack interface {
		// GetResource returns the named resource, or an error wrapping
		// ErrResourceNotFound when the pack has no such resource.
		GetResource(ctx context.Context, name string) (Content, error)
		// ListResources returns every resource name the pack serves, sorted.
		ListResources(ctx context.Context) ([]string, error)
	}

	// InfoProvider is implemented by packs that describe themselves.
	InfoProvider interface {
		PackInfo() PackInfo
	}

	// TypeProvider is implemented by packs that know a resource's content
	// type without loading it.
	TypeProvider interface {
		ContentTypeOf(name string) string
	}

	// PathProvider is implemented by packs whose resources live on the local
	// filesystem.
	PathProvider interface {
		// ResourcePath returns the file backing name, if there is one.
		ResourcePath(name string) (string, bool)
	}

	// Info is listing metadata for one resource. No content is loaded to build it.
	Info struct {
		Name        string   `json:"name"`
		Pack        string   `json:"pack"`
		ContentType string   `json:"content_type,omitempty"`
		Tags        []string `json:"tags,omitempty"`
	}

	// PackInfo describes a pack for display.
	PackInfo struct {
		Description string `json:"description,omitempty"`
		SourceURL   string `json:"source_url,omitempty"`
		LicenseSPDX string `json:"license_spdx,omitempty"`
		Version     string `json:"version,omitempty"`
	}

	// NotFoundError is returned by packs for a name they do not serve.
	// Suggestions holds similar names, best match first.
	NotFoundError struct {
		Pack        string
		Name        string
		Suggestions []string
	}
)

// IsZero reports whether no field is set.
func (p PackInfo) IsZero() bool { return p == PackInfo{} }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "resource %q not found", e.Name)
	if e.Pack != "" {
		fmt.Fprintf(&sb, " in pack %q", e.Pack)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&sb, " (similar names: %s)", strings.Join(e.Suggestions, ", "))
	}
	return sb.String()
}

// Unwrap returns ErrResourceNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrResourceNotFound }
