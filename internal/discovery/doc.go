// SPDX-License-Identifier: MPL-2.0

// Package discovery finds resource packs and turns them into candidates for
// the registry.
//
// File organization:
//   - diagnostic.go: Diagnostic values returned to callers instead of printed
//   - source.go: the Source interface, Candidate, and StaticSource
//   - dir_source.go: DirSource, which scans search paths for *.jmrpack directories
//   - blocklist.go: pack exclusion by qualified id or pack name
//   - discovery.go: Discovery.Run, which combines sources and applies the blocklist
package discovery
