// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the hot paths of pack discovery and
// name resolution:
//   - manifest parsing and schema validation (CUE, YAML, TOML)
//   - snapshot builds over many packs with colliding names
//   - query resolution for every query form
//   - directory discovery and end-to-end resource fetches
//
// The profile they produce can be used for PGO builds:
//
//	go test -run '^$' -bench . -cpuprofile default.pgo ./internal/benchmark
package benchmark
