// SPDX-License-Identifier: MPL-2.0

package issue

import "errors"

var (
	// ErrConfiguration marks a missing or contradictory build script declaration.
	ErrConfiguration = errors.New("configuration error")
	// ErrFileSystem marks a missing required input or an output that could not be created.
	ErrFileSystem = errors.New("file system error")
	// ErrMerge marks a failure reported by the manifest-merge collaborator.
	ErrMerge = errors.New("manifest merge error")
	// ErrKeyFormat marks a signing key or certificate that could not be decoded.
	ErrKeyFormat = errors.New("key format error")
)

// Kind identifies which taxonomy sentinel an error wraps.
type Kind string

const (
	KindUnknown       Kind = "unknown"
	KindConfiguration Kind = "configuration"
	KindFileSystem    Kind = "filesystem"
	KindMerge         Kind = "merge"
	KindKeyFormat     Kind = "key-format"
)

// KindOf classifies err by the first taxonomy sentinel found in its chain.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrFileSystem):
		return KindFileSystem
	case errors.Is(err, ErrMerge):
		return KindMerge
	case errors.Is(err, ErrKeyFormat):
		return KindKeyFormat
	default:
		return KindUnknown
	}
}
