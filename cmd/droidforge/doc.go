// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for droidforge.
//
// Command tree layout:
//
//	droidforge build [--sign <apk>] [--out <apk>]
//	droidforge inspect
//	droidforge sign <apk> [--out <apk>]
//	droidforge watch
//	droidforge config {show [--format text|toml|cue] | dump | init | path}
//
// Handlers receive an App and never call os.Exit; failures are rendered
// by App.fail and surface as *ExitError.
package cmd
