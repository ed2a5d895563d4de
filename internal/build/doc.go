// SPDX-License-Identifier: MPL-2.0

// Package build wires a module, its tasks and the pipeline from one
// immutable Options value. It is the single entry point used by the CLI
// commands.
package build
