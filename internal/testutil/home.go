// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetConfigHome points os.UserConfigDir at a fresh directory under dir and
// returns that directory. Tests calling it must not run in parallel.
//
// Platform handling:
//   - Windows: sets AppData
//   - macOS: sets HOME, the config dir is $HOME/Library/Application Support
//   - others: sets XDG_CONFIG_HOME
func SetConfigHome(t testing.TB, dir string) string {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		MustSetenv(t, "AppData", dir)
		return dir
	case "darwin":
		MustSetenv(t, "HOME", dir)
		return filepath.Join(dir, "Library", "Application Support")
	default:
		MustSetenv(t, "XDG_CONFIG_HOME", dir)
		return dir
	}
}
