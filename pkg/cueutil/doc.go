// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema and
// decodes them into Go values.
//
// The flow is always the same three steps: compile the schema, compile and
// unify the user document with a schema definition, then validate and decode.
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	res, err := cueutil.Decode[Config](schema, data, "#Config",
//	    cueutil.WithFilename("droidforge.cue"))
//	if err != nil {
//	    return err // *cueutil.SchemaError with per-field paths
//	}
//	cfg := res.Value
package cueutil
