// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidSdkLevel is the sentinel error wrapped by InvalidSdkLevelError.
var ErrInvalidSdkLevel = errors.New("invalid sdk level")

type (
	// SdkLevel is an Android API level (minSdk, targetSdk).
	SdkLevel int

	// InvalidSdkLevelError is returned when an SdkLevel is not positive.
	InvalidSdkLevelError struct {
		Value SdkLevel
	}
)

// Error implements the error interface.
func (e *InvalidSdkLevelError) Error() string {
	return fmt.Sprintf("invalid sdk level %d (must be >= 1)", e.Value)
}

// Unwrap returns ErrInvalidSdkLevel for errors.Is.
func (e *InvalidSdkLevelError) Unwrap() error { return ErrInvalidSdkLevel }

// Validate returns an error if the level is below 1.
func (l SdkLevel) Validate() error {
	if l < 1 {
		return &InvalidSdkLevelError{Value: l}
	}
	return nil
}

// String returns the decimal representation of the level.
func (l SdkLevel) String() string { return strconv.Itoa(int(l)) }
