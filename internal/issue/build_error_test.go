// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindUnknown},
		{errors.New("x"), KindUnknown},
		{fmt.Errorf("%w: missing applicationId", ErrConfiguration), KindConfiguration},
		{fmt.Errorf("prepare: %w", fmt.Errorf("%w: no manifest", ErrFileSystem)), KindFileSystem},
		{ErrMerge, KindMerge},
		{fmt.Errorf("%w: not an RSA, EC, or DSA private key", ErrKeyFormat), KindKeyFormat},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestBuildError(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("%w: missing applicationId", ErrConfiguration)
	err := error(&BuildError{Task: "generateDebugBuildConfig", Phase: PhasePrepare, Err: cause})

	want := "build failed in task generateDebugBuildConfig (prepare): configuration error: missing applicationId"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Error("errors.Is(err, ErrConfiguration) = false")
	}
	var be *BuildError
	if !errors.As(err, &be) || be.Kind() != KindConfiguration {
		t.Errorf("errors.As/Kind failed: %+v", be)
	}
}
