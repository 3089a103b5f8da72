// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/justmyresource/justmyresource/pkg/resolve"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidPrefixMapEntry is the sentinel error wrapped by InvalidPrefixMapEntryError.
	ErrInvalidPrefixMapEntry = errors.New("invalid prefix_map entry")
	// ErrInvalidDefaultPrefix is the sentinel error wrapped by InvalidDefaultPrefixError.
	ErrInvalidDefaultPrefix = errors.New("invalid default prefix")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidPrefixMapEntryError is returned for a prefix_map entry whose key
	// is not a usable prefix or whose value is not a qualified id.
	InvalidPrefixMapEntryError struct {
		Prefix string
		Target string
		Reason string
	}

	// InvalidDefaultPrefixError is returned when default_prefix contains a
	// colon or whitespace.
	InvalidDefaultPrefixError struct {
		Value string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// UIConfig contains UI-related configuration.
	UIConfig struct {
		// ColorScheme sets the color scheme ("auto", "dark", "light").
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging by default.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// Config holds the application configuration.
	Config struct {
		// SearchPaths are directories scanned for *.jmrpack directories,
		// highest precedence first.
		SearchPaths []string `json:"search_paths" mapstructure:"search_paths"`
		// PrefixMap pins prefixes to qualified ids.
		PrefixMap map[string]string `json:"prefix_map" mapstructure:"prefix_map"`
		// DefaultPrefix is applied to queries without a colon.
		DefaultPrefix string `json:"default_prefix" mapstructure:"default_prefix"`
		// Blocklist excludes packs by pack name or qualified id.
		Blocklist []string `json:"blocklist" mapstructure:"blocklist"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`

		// Path is the file the configuration was loaded from, empty for defaults.
		Path string `json:"-" mapstructure:"-"`
	}
)

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns nil if the ColorScheme is one of the defined schemes.
// The zero value means auto.
func (cs ColorScheme) Validate() error {
	switch cs {
	case "", ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// Error implements the error interface.
func (e *InvalidPrefixMapEntryError) Error() string {
	return fmt.Sprintf("prefix_map entry %q=%q: %s", e.Prefix, e.Target, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidPrefixMapEntryError) Unwrap() error {
	return ErrInvalidPrefixMapEntry
}

// Error implements the error interface.
func (e *InvalidDefaultPrefixError) Error() string {
	return fmt.Sprintf("invalid default prefix %q: must not contain %q or whitespace", e.Value, resolve.Separator)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidDefaultPrefixError) Unwrap() error {
	return ErrInvalidDefaultPrefix
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SearchPaths: []string{},
		PrefixMap:   map[string]string{},
		Blocklist:   []string{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// Validate checks constraints the CUE schema cannot see, such as values
// that arrived through environment variables or flags.
func (c *Config) Validate() error {
	var errs []error
	for _, prefix := range slices.Sorted(maps.Keys(c.PrefixMap)) {
		if err := validatePrefixMapEntry(prefix, c.PrefixMap[prefix]); err != nil {
			errs = append(errs, err)
		}
	}
	if c.DefaultPrefix != "" && strings.ContainsAny(c.DefaultPrefix, resolve.Separator+" \t\n") {
		errs = append(errs, &InvalidDefaultPrefixError{Value: c.DefaultPrefix})
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Overrides returns PrefixMap as resolver overrides.
func (c *Config) Overrides() map[string]resolve.QualifiedID {
	out := make(map[string]resolve.QualifiedID, len(c.PrefixMap))
	for prefix, target := range c.PrefixMap {
		out[prefix] = resolve.QualifiedID(target)
	}
	return out
}

func validatePrefixMapEntry(prefix, target string) error {
	switch {
	case prefix == "":
		return &InvalidPrefixMapEntryError{Prefix: prefix, Target: target, Reason: "prefix is empty"}
	case strings.Contains(prefix, resolve.Separator):
		return &InvalidPrefixMapEntryError{Prefix: prefix, Target: target, Reason: "prefix must not contain " + resolve.Separator}
	case strings.Contains(prefix, resolve.QualifiedSeparator):
		return &InvalidPrefixMapEntryError{Prefix: prefix, Target: target, Reason: "prefix must not contain " + resolve.QualifiedSeparator}
	}
	if err := resolve.QualifiedID(target).Validate(); err != nil {
		return &InvalidPrefixMapEntryError{Prefix: prefix, Target: target, Reason: "target must be <distribution>/<pack>"}
	}
	return nil
}
