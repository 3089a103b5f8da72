// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/justmyresource/justmyresource/internal/issue"
	"github.com/justmyresource/justmyresource/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "justmyresource"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// EnvPrefixMap holds extra prefix_map entries as "prefix=dist/pack,...".
	EnvPrefixMap = "RESOURCE_PREFIX_MAP"
	// EnvDefaultPrefix replaces default_prefix.
	EnvDefaultPrefix = "RESOURCE_DEFAULT_PREFIX"
	// EnvBlocklist holds extra blocklist entries, comma separated.
	EnvBlocklist = "RESOURCE_DISCOVERY_BLOCKLIST"
	// EnvPackPath holds extra search paths in OS path-list form. They are
	// searched before the configured ones.
	EnvPackPath = "RESOURCE_PACK_PATH"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the justmyresource configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// PacksDir returns the per-user pack directory, which is always searched after
// the configured search paths. It is ~/.justmyresource/packs on all platforms.
func PacksDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "."+AppName, "packs"), nil
}

// PackPaths returns the search paths followed by the per-user pack directory.
func (c *Config) PackPaths() []string {
	paths := slices.Clone(c.SearchPaths)
	if dir, err := PacksDir(); err == nil && !slices.Contains(paths, dir) {
		paths = append(paths, dir)
	}
	return paths
}

// loadWithOptions performs option-driven config loading without mutating
// package-level cache state. Callers that want caching can wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("search_paths", defaults.SearchPaths)
	v.SetDefault("default_prefix", defaults.DefaultPrefix)
	v.SetDefault("blocklist", defaults.Blocklist)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	resolvedPath := ""
	// prefix_map bypasses viper, whose key folding would lowercase prefixes.
	prefixMap := maps.Clone(defaults.PrefixMap)
	if prefixMap == nil {
		prefixMap = make(map[string]string)
	}

	// If a custom config file path is set via --config flag, use it exclusively.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'justmyresource config show' to see the default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, prefixMap, opts.ConfigFilePath); err != nil {
			return nil, cueLoadError(opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, err
		}

		for _, candidate := range []string{
			filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
			ConfigFileName + "." + ConfigFileExt,
		} {
			if !fileExists(candidate) {
				continue
			}
			if err := loadCUEIntoViper(v, prefixMap, candidate); err != nil {
				return nil, cueLoadError(candidate, err)
			}
			resolvedPath = candidate
			break
		}
		// If no config file found, use defaults (no error)
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := applyEnv(v, prefixMap, lookup); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read environment").
			WithResource(EnvPrefixMap).
			WithSuggestion("Use comma separated prefix=distribution/pack pairs, e.g. icons=acme-icons/lucide").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Path = resolvedPath
	cfg.PrefixMap = prefixMap

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("prefix_map keys are plain prefixes; values are <distribution>/<pack>").
			WithSuggestion("default_prefix must not contain ':' or whitespace").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

func cueLoadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'justmyresource config --help' for configuration options").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper. prefix_map entries are copied into
// prefixMap with their case intact instead.
//
// Note: This uses manual CUE parsing instead of cueutil.ParseAndDecode because
// the config decodes to map[string]any for Viper's merge rather than to a struct.
func loadCUEIntoViper(v *viper.Viper, prefixMap map[string]string, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	// Unify with schema to validate against #Config definition
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if raw, ok := configMap["prefix_map"].(map[string]any); ok {
		for prefix, target := range raw {
			prefixMap[prefix] = fmt.Sprint(target)
		}
	}
	delete(configMap, "prefix_map")

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// applyEnv layers the RESOURCE_* variables over the file values in v and
// prefixMap. Prefix map and blocklist entries are merged; the default prefix
// is replaced; extra pack paths are searched first.
func applyEnv(v *viper.Viper, prefixMap map[string]string, lookup func(string) (string, bool)) error {
	if raw, ok := lookup(EnvPrefixMap); ok && strings.TrimSpace(raw) != "" {
		entries, err := ParsePrefixMap(raw)
		if err != nil {
			return err
		}
		maps.Copy(prefixMap, entries)
	}

	if raw, ok := lookup(EnvDefaultPrefix); ok {
		v.Set("default_prefix", strings.TrimSpace(raw))
	}

	if raw, ok := lookup(EnvBlocklist); ok {
		blocklist := v.GetStringSlice("blocklist")
		for entry := range strings.SplitSeq(raw, ",") {
			if entry = strings.TrimSpace(entry); entry != "" && !slices.Contains(blocklist, entry) {
				blocklist = append(blocklist, entry)
			}
		}
		v.Set("blocklist", blocklist)
	}

	if raw, ok := lookup(EnvPackPath); ok && raw != "" {
		var paths []string
		for _, p := range filepath.SplitList(raw) {
			if p != "" {
				paths = append(paths, p)
			}
		}
		v.Set("search_paths", append(paths, v.GetStringSlice("search_paths")...))
	}
	return nil
}

// ParsePrefixMap parses "prefix=distribution/pack" pairs separated by commas.
// Whitespace around entries is ignored, as are empty entries.
func ParsePrefixMap(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for entry := range strings.SplitSeq(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		prefix, target, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, &InvalidPrefixMapEntryError{Prefix: entry, Reason: "expected prefix=distribution/pack"}
		}
		prefix, target = strings.TrimSpace(prefix), strings.TrimSpace(target)
		if err := validatePrefixMapEntry(prefix, target); err != nil {
			return nil, err
		}
		out[prefix] = target
	}
	return out, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// ConfigFilePath returns the path of the user config file, whether or not it exists.
//
//nolint:revive // mirrors ConfigDir
func ConfigFilePath() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// CreateDefaultConfig creates a default config file if it doesn't exist and
// returns its path. created is false when the file was already there.
func CreateDefaultConfig() (path string, created bool, err error) {
	cfgPath, err := ConfigFilePath()
	if err != nil {
		return "", false, err
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// justmyresource configuration file\n")
	sb.WriteString("// Packs are *.jmrpack directories found in search_paths.\n\n")

	if len(cfg.SearchPaths) > 0 {
		sb.WriteString("search_paths: [\n")
		for _, p := range cfg.SearchPaths {
			fmt.Fprintf(&sb, "\t%q,\n", p)
		}
		sb.WriteString("]\n")
	} else {
		sb.WriteString("search_paths: []\n")
	}

	if len(cfg.PrefixMap) > 0 {
		sb.WriteString("\nprefix_map: {\n")
		for _, prefix := range slices.Sorted(maps.Keys(cfg.PrefixMap)) {
			fmt.Fprintf(&sb, "\t%q: %q\n", prefix, cfg.PrefixMap[prefix])
		}
		sb.WriteString("}\n")
	} else {
		sb.WriteString("\n// prefix_map: {\"icons\": \"acme-icons/lucide\"}\n")
	}

	if cfg.DefaultPrefix != "" {
		fmt.Fprintf(&sb, "\ndefault_prefix: %q\n", cfg.DefaultPrefix)
	} else {
		sb.WriteString("\n// default_prefix: \"lucide\"\n")
	}

	if len(cfg.Blocklist) > 0 {
		sb.WriteString("\nblocklist: [\n")
		for _, b := range cfg.Blocklist {
			fmt.Fprintf(&sb, "\t%q,\n", b)
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nui: {\n")
	colorScheme := cfg.UI.ColorScheme
	if colorScheme == "" {
		colorScheme = ColorSchemeAuto
	}
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", colorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
