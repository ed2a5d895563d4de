// SPDX-License-Identifier: MPL-2.0

// Package buildscript extracts module configuration from Gradle build scripts
// (Groovy or Kotlin DSL) without evaluating them.
//
// A single tokenizer pass turns the script into a list of declarations
// (key, optional separator, literal value) in document order. Attribute
// lookups then apply one documented merge rule: the first declaration in
// document order that is valid for the attribute wins, and later ones are
// ignored. Attributes with an alias (minSdk/minSdkVersion,
// targetSdk/targetSdkVersion) consult every declaration of the primary key
// before any declaration of the alias. When nothing valid is declared the
// attribute takes its default (see the Default* constants).
//
// Comments (// and /* */) are skipped by the tokenizer, so commented-out
// declarations are never seen.
package buildscript
