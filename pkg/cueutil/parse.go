// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds the documents Decode accepts.
const DefaultMaxFileSize = 1 << 20

type (
	// Result carries the decoded value and the unified CUE value it came from.
	Result[T any] struct {
		Value   *T
		Unified cue.Value
	}

	// Option configures Decode.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int
		concrete    bool
	}
)

// WithFilename sets the name used in positions and error messages.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete controls whether every field must be concrete after
// unification. Defaults to true.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// Decode unifies data with the schema definition at def and decodes the
// result into a T.
func Decode[T any](schema, data []byte, def string, opts ...Option) (*Result[T], error) {
	o := options{filename: "<input>", maxFileSize: DefaultMaxFileSize, concrete: true}
	for _, opt := range opts {
		opt(&o)
	}

	if len(data) > o.maxFileSize {
		return nil, &SchemaError{
			File:  o.filename,
			cause: fmt.Errorf("file is %d bytes, limit is %d", len(data), o.maxFileSize),
		}
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema, cue.Filename("schema.cue"))
	if err := schemaValue.Err(); err != nil {
		return nil, fmt.Errorf("internal error: compile schema: %w", err)
	}
	root := schemaValue.LookupPath(cue.ParsePath(def))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema definition %s: %w", def, err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := userValue.Err(); err != nil {
		return nil, FormatError(err, o.filename)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var v T
	if err := unified.Decode(&v); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &Result[T]{Value: &v, Unified: unified}, nil
}
