// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers: environment and file fixtures that
// fail the test on error, Android module trees written into t.TempDir(), and
// signing keys and certificates generated at test time.
package testutil
