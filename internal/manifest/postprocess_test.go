// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"strings"
	"testing"

	"github.com/droidforge/droidforge/internal/issue"
)

func TestFinalize(t *testing.T) {
	t.Parallel()

	in := `<?xml version="1.0" encoding="utf-8"?><manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.ex"><application><activity android:name=".Main"/></application></manifest>`
	out, err := Finalize([]byte(in))
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	got := string(out)
	for _, want := range []string{
		`xmlns:tools="http://schemas.android.com/tools"`,
		"\n    <application>\n",
		"\n        <activity android:name=\".Main\"/>\n",
		"\n    </application>\n",
		`<?xml version="1.0" encoding="utf-8"?>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Finalize() output missing %q:\n%s", want, got)
		}
	}
}

func TestFinalize_ExistingToolsNamespace(t *testing.T) {
	t.Parallel()

	in := `<manifest xmlns:tools="http://example.com/old"><application tools:replace="label"/></manifest>`
	out, err := Finalize([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)
	if strings.Count(got, "xmlns:tools=") != 1 || !strings.Contains(got, ToolsNamespace) {
		t.Errorf("tools namespace should be replaced exactly once:\n%s", got)
	}
}

func TestFinalize_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "<manifest"} {
		if _, err := Finalize([]byte(in)); !errors.Is(err, issue.ErrMerge) {
			t.Errorf("Finalize(%q) error = %v, want ErrMerge", in, err)
		}
	}
}
