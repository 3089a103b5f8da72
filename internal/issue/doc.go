// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the operation, the resource, and remediation hints
// for a failure; its Issue field links a Markdown catalog page that the CLI
// renders with glamour when more guidance is wanted.
package issue
