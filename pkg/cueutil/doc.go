// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE (and JSON, which is a subset of CUE) documents
// against an embedded schema and decodes them into Go values.
//
// Pack manifests and the configuration file share the same three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with the schema definition
//  3. Validate and decode to a Go struct
//
// # Usage
//
//	//go:embed pack_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Manifest](
//	    schemaBytes,
//	    data,
//	    "#Manifest",
//	    cueutil.WithFilename("pack.cue"),
//	)
//	if err != nil {
//	    return nil, err // *cueutil.ValidationError with field paths
//	}
//	return result.Value, nil
package cueutil
