// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/droidforge/droidforge/internal/issue"
)

// MergeType selects the merge rules applied to the main manifest.
type MergeType string

const (
	MergeApplication MergeType = "application"
	MergeLibrary     MergeType = "library"
)

// Property is a manifest value the merger overrides.
type Property string

const (
	PropertyPackage          Property = "PACKAGE"
	PropertyMinSdkVersion    Property = "MIN_SDK_VERSION"
	PropertyTargetSdkVersion Property = "TARGET_SDK_VERSION"
	PropertyVersionCode      Property = "VERSION_CODE"
	PropertyVersionName      Property = "VERSION_NAME"
)

type (
	// MergeRequest describes one merge.
	MergeRequest struct {
		Set       Set
		Type      MergeType
		Overrides map[Property]string
	}

	// Report is the merger's outcome. Error marks a failed merge; Text is
	// the human-readable report in both cases.
	Report struct {
		Error    bool
		Document []byte
		Text     string
	}

	// Merger merges manifests.
	Merger interface {
		Merge(ctx context.Context, req MergeRequest) (*Report, error)
	}

	// MergeError is returned when the merger reports a failed merge.
	MergeError struct {
		Report string
	}
)

func (e *MergeError) Error() string {
	text := strings.TrimSpace(e.Report)
	if text == "" {
		return "manifest merger reported an error"
	}
	return "manifest merger reported an error:\n" + text
}

func (e *MergeError) Unwrap() error { return issue.ErrMerge }

// SortedOverrides returns the overrides as KEY=VALUE pairs sorted by key.
func (r MergeRequest) SortedOverrides() []string {
	keys := slices.Sorted(maps.Keys(r.Overrides))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, r.Overrides[k]))
	}
	return out
}

// ErrUnsupportedMergeType is returned by mergers that cannot perform the
// requested MergeType.
var ErrUnsupportedMergeType = errors.New("unsupported merge type")
