// SPDX-License-Identifier: MPL-2.0

package signing

import (
	"context"

	"github.com/droidforge/droidforge/pkg/types"
)

type (
	// Signer signs a package. Implementations block until the package is
	// written or ctx is done.
	Signer interface {
		Sign(ctx context.Context, req Request) error
	}

	// Request describes one signing operation.
	Request struct {
		// Signers are applied in order; at least one is required.
		Signers    []*Identity
		InputPath  string
		OutputPath string
		// MinSdk is passed to the signer when non-zero.
		MinSdk types.SdkLevel
	}

	// SignError is a non-zero exit of the signing tool.
	SignError struct {
		Output string
		Err    error
	}
)

func (e *SignError) Error() string {
	if e.Output == "" {
		return "signing failed: " + e.Err.Error()
	}
	return "signing failed: " + e.Err.Error() + "\n" + e.Output
}

func (e *SignError) Unwrap() error { return e.Err }
