// SPDX-License-Identifier: MPL-2.0

// Package module models one Android module on disk: its directory layout,
// the build script it is configured by, and the libraries it links against.
//
// Attribute accessors read the build script again on every call, so an edit
// made between two calls is observed by the second. Only the source indexes
// are cached, and Clear drops them and notifies every registered observer.
package module
