// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/droidforge/droidforge/internal/buildscript"
	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/internal/module"
)

type fakeMerger struct {
	report *Report
	err    error
	got    MergeRequest
}

func (f *fakeMerger) Merge(_ context.Context, req MergeRequest) (*Report, error) {
	f.got = req
	return f.report, f.err
}

const appScript = `android {
    namespace "com.example"
    defaultConfig {
        applicationId "com.example.app"
        minSdk 24
        targetSdk 34
        versionCode 5
        versionName "1.5"
    }
}`

func newAppModule(t *testing.T, script string, withManifest bool) *module.Module {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, module.GroovyScript), script)
	if withManifest {
		writeFile(t, filepath.Join(root, "src", "main", "AndroidManifest.xml"), "<manifest/>")
	}
	m, err := module.New(root)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestTask_PrepareBuildsRequest(t *testing.T) {
	t.Parallel()

	m := newAppModule(t, appScript, true)
	lib := filepath.Join(m.BuildDir(), "libraries", "core", "classes.jar")
	writeFile(t, lib, "jar")
	writeFile(t, filepath.Join(filepath.Dir(lib), "AndroidManifest.xml"), "<manifest package=\"core\"/>")

	tk := NewTask(m, &fakeMerger{})
	if err := tk.Prepare(context.Background()); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	info, err := os.Stat(tk.Output())
	if err != nil || info.Size() != 0 {
		t.Fatalf("output manifest should exist and be empty: %v", err)
	}

	want := MergeRequest{
		Set: Set{
			Main:      m.ManifestFile(),
			Libraries: []string{filepath.Join(filepath.Dir(lib), "AndroidManifest.xml")},
		},
		Type: MergeApplication,
		Overrides: map[Property]string{
			PropertyPackage:          "com.example.app",
			PropertyMinSdkVersion:    "24",
			PropertyTargetSdkVersion: "34",
			PropertyVersionCode:      "5",
			PropertyVersionName:      "1.5",
		},
	}
	if diff := cmp.Diff(want, tk.Request()); diff != "" {
		t.Errorf("Request() mismatch (-want +got):\n%s", diff)
	}
	if got := tk.DependsOn(); len(got) != 1 || got[0] != "generateDebugBuildConfig" {
		t.Errorf("DependsOn() = %v", got)
	}
}

func TestTask_PrepareSkipsUnusableLibraryManifests(t *testing.T) {
	t.Parallel()

	m := newAppModule(t, appScript, true)
	libs := filepath.Join(m.BuildDir(), "libraries")
	writeFile(t, filepath.Join(libs, "empty", "classes.jar"), "jar")
	writeFile(t, filepath.Join(libs, "empty", "AndroidManifest.xml"), "")
	writeFile(t, filepath.Join(libs, "absent", "classes.jar"), "jar")

	tk := NewTask(m, &fakeMerger{})
	if err := tk.Prepare(context.Background()); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	set := tk.Request().Set
	if set.Main != m.ManifestFile() {
		t.Errorf("Set.Main = %q, want %q", set.Main, m.ManifestFile())
	}
	if len(set.Libraries) != 0 {
		t.Errorf("Set.Libraries = %v, want none", set.Libraries)
	}
}

func TestTask_PrepareErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing main manifest", func(t *testing.T) {
		t.Parallel()
		m := newAppModule(t, appScript, false)
		tk := NewTask(m, &fakeMerger{})
		err := tk.Prepare(context.Background())
		if !errors.Is(err, issue.ErrFileSystem) {
			t.Fatalf("Prepare() error = %v, want ErrFileSystem", err)
		}
		// The empty output is created before the main manifest check.
		if _, statErr := os.Stat(filepath.Join(m.BuildDir(), "bin", FileName)); statErr != nil {
			t.Errorf("output manifest missing: %v", statErr)
		}
	})

	t.Run("namespace only", func(t *testing.T) {
		t.Parallel()
		m := newAppModule(t, `namespace "com.example"`, true)
		err := NewTask(m, &fakeMerger{}).Prepare(context.Background())
		if !errors.Is(err, buildscript.ErrMissingApplicationID) {
			t.Errorf("Prepare() error = %v", err)
		}
	})
}

func TestTask_Run(t *testing.T) {
	t.Parallel()

	merged := `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.app"><application/></manifest>`

	tests := []struct {
		name     string
		merger   *fakeMerger
		wantErr  error
		wantText string
	}{
		{
			name:     "success",
			merger:   &fakeMerger{report: &Report{Document: []byte(merged)}},
			wantText: `xmlns:tools="http://schemas.android.com/tools"`,
		},
		{
			name:    "error report",
			merger:  &fakeMerger{report: &Report{Error: true, Text: "conflict at line 3"}},
			wantErr: issue.ErrMerge,
		},
		{
			name:    "collaborator failure",
			merger:  &fakeMerger{err: context.Canceled},
			wantErr: context.Canceled,
		},
		{
			name:   "no document",
			merger: &fakeMerger{report: &Report{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newAppModule(t, appScript, true)
			tk := NewTask(m, tt.merger)
			if err := tk.Prepare(context.Background()); err != nil {
				t.Fatal(err)
			}
			err := tk.Run(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}
				var me *MergeError
				if errors.As(err, &me) && !strings.Contains(me.Error(), "conflict at line 3") {
					t.Errorf("MergeError should carry the report: %v", me)
				}
				return
			}
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			got, _ := os.ReadFile(tk.Output())
			if !strings.Contains(string(got), tt.wantText) {
				t.Errorf("output = %s", got)
			}
			if arts := tk.Artifacts(); len(arts) != 1 || arts[0].Path != tk.Output() {
				t.Errorf("Artifacts() = %+v", arts)
			}
		})
	}
}
