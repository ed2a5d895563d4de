// SPDX-License-Identifier: MPL-2.0

package signing

import (
	"github.com/droidforge/droidforge/internal/issue"
)

// KeyFormatError reports key material or certificates that could not be
// decoded.
type KeyFormatError struct {
	// Source is the file or keystore alias involved.
	Source string
	Reason string
	Err    error
}

func (e *KeyFormatError) Error() string {
	msg := e.Reason
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes issue.ErrKeyFormat and the underlying cause.
func (e *KeyFormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{issue.ErrKeyFormat}
	}
	return []error{issue.ErrKeyFormat, e.Err}
}
