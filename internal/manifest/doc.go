// SPDX-License-Identifier: MPL-2.0

// Package manifest merges the module's main AndroidManifest.xml with the
// manifests of its libraries.
//
// The merge itself is delegated to a Merger, normally the manifest-merger
// command line tool. The task overrides the package name, SDK levels and
// version from the build script, declares the tools namespace on the merged
// root element and writes the pretty-printed result to
// <build>/bin/AndroidManifest.xml.
package manifest
