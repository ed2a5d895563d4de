// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidPackageName is the sentinel error wrapped by InvalidPackageNameError.
var ErrInvalidPackageName = errors.New("invalid package name")

type (
	// PackageName is a dot-separated Java package name such as "com.example.app".
	// It is used both as an Android application id and as the package of
	// generated sources, so every segment must be a Java identifier.
	PackageName string

	// InvalidPackageNameError is returned when a PackageName has an empty or
	// non-identifier segment.
	InvalidPackageNameError struct {
		Value   PackageName
		Segment string
	}
)

// Error implements the error interface.
func (e *InvalidPackageNameError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("invalid package name %q: empty segment", e.Value)
	}
	return fmt.Sprintf("invalid package name %q: segment %q is not a Java identifier", e.Value, e.Segment)
}

// Unwrap returns ErrInvalidPackageName for errors.Is.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }

// String returns the package name.
func (p PackageName) String() string { return string(p) }

// Validate returns an error unless every dot-separated segment is a Java identifier.
func (p PackageName) Validate() error {
	if p == "" {
		return &InvalidPackageNameError{Value: p}
	}
	for _, seg := range strings.Split(string(p), ".") {
		if !isJavaIdentifier(seg) {
			return &InvalidPackageNameError{Value: p, Segment: seg}
		}
	}
	return nil
}

// Path converts the package name into a relative directory path
// ("com.example.app" -> "com/example/app").
func (p PackageName) Path() string {
	return filepath.FromSlash(strings.ReplaceAll(string(p), ".", "/"))
}

func isJavaIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
