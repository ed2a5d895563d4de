// SPDX-License-Identifier: MPL-2.0

// Package config handles droidforge configuration using Viper with CUE as the
// file format.
//
// Layers, lowest first: built-in defaults, the global file
// (<user config dir>/droidforge/config.cue), the project file
// (<module root>/droidforge.cue) and DROIDFORGE_* environment variables,
// where a dot in a key becomes an underscore (DROIDFORGE_SIGNING_KEY_FILE).
// An explicit --config file replaces both file layers.
//
// Files are validated against the embedded schema (config_schema.cue).
package config
