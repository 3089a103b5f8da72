// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that fail the test on error
// instead of returning it.
//
// Environment helpers (MustSetenv, MustUnsetenv, SetHomeDir) return a
// cleanup function that restores the previous value. WritePack lays out a
// pack directory the way discovery expects to find one.
package testutil
