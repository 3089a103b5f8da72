// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/justmyresource/config.cue (or XDG equivalent on
// Linux, ~/Library/Application Support/justmyresource/config.cue on macOS,
// %APPDATA%\justmyresource\config.cue on Windows), then from ./config.cue, and finally
// from defaults. Environment variables (RESOURCE_PREFIX_MAP, RESOURCE_DEFAULT_PREFIX,
// RESOURCE_DISCOVERY_BLOCKLIST, RESOURCE_PACK_PATH) are applied on top of the file.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
