// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/droidforge/droidforge/internal/issue"
)

// Set is the main manifest plus the library manifests to merge into it.
type Set struct {
	Main      string
	Libraries []string
}

// CollectSet requires main to exist and keeps the candidates that exist and
// are non-empty, in order. Skipped candidates are logged at debug level.
func CollectSet(main string, candidates []string, log *slog.Logger) (Set, error) {
	info, err := os.Stat(main)
	if err != nil {
		return Set{}, fmt.Errorf("%w: main manifest %s: %w", issue.ErrFileSystem, main, err)
	}
	if info.IsDir() {
		return Set{}, fmt.Errorf("%w: main manifest %s is a directory", issue.ErrFileSystem, main)
	}

	set := Set{Main: main}
	for _, c := range candidates {
		fi, err := os.Stat(c)
		switch {
		case err != nil:
			log.Debug("skipping library manifest", "path", c, "reason", "missing")
		case fi.IsDir() || fi.Size() == 0:
			log.Debug("skipping library manifest", "path", c, "reason", "empty")
		default:
			set.Libraries = append(set.Libraries, c)
		}
	}
	return set, nil
}
