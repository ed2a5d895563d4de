// SPDX-License-Identifier: MPL-2.0

// Package issue defines the droidforge error taxonomy and user-facing error
// helpers.
//
// Every failure raised by the configuration resolver or a pipeline task wraps
// one of the kind sentinels (ErrConfiguration, ErrFileSystem, ErrMerge,
// ErrKeyFormat). The pipeline wraps the first failure into a BuildError, and
// the CLI turns that into an ActionableError plus an optional Markdown guide
// from the issue catalog.
package issue
