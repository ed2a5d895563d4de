// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated value types shared across droidforge:
// Java package names used as application ids, SDK API levels and process
// exit codes.
package types
