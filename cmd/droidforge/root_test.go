// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/droidforge/droidforge/internal/config"
	"github.com/droidforge/droidforge/internal/manifest"
	"github.com/droidforge/droidforge/internal/testutil"
	"github.com/droidforge/droidforge/pkg/types"
)

type staticProvider struct {
	cfg   *config.Config
	files []string
	err   error
}

func (p staticProvider) Load(context.Context, config.LoadOptions) (*config.Loaded, error) {
	if p.err != nil {
		return nil, p.err
	}
	cfg := p.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &config.Loaded{Config: cfg, Files: p.files}, nil
}

type copyMerger struct{}

func (copyMerger) Merge(_ context.Context, req manifest.MergeRequest) (*manifest.Report, error) {
	doc, err := os.ReadFile(req.Set.Main)
	if err != nil {
		return nil, err
	}
	return &manifest.Report{Document: doc}, nil
}

type conflictMerger struct{}

func (conflictMerger) Merge(context.Context, manifest.MergeRequest) (*manifest.Report, error) {
	return &manifest.Report{Error: true, Text: "conflict on <application>"}, nil
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, deps Dependencies, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	deps.Stdout = &stdout
	deps.Stderr = &stderr
	if deps.IssueStyle == "" {
		deps.IssueStyle = "notty"
	}
	root := NewRootCommand(NewApp(deps))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func exitCode(t *testing.T, err error) types.ExitCode {
	t.Helper()
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *ExitError", err)
	}
	return exitErr.Code
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got, want := getVersionString(), "dev (built from source)"; got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestBuildCommand(t *testing.T) {
	t.Parallel()

	root := testutil.AppModule(t)
	res := runCLI(t, Dependencies{Config: staticProvider{}, Merger: copyMerger{}}, "build", "-C", root)
	if res.err != nil {
		t.Fatalf("build: %v\nstderr:\n%s", res.err, res.stderr)
	}

	for _, want := range []string{"generateDebugBuildConfig", "mergeManifest", "BuildConfig.java", "AndroidManifest.xml"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
	gen := filepath.Join(root, "build", "gen", "com", "example", "app", "BuildConfig.java")
	if _, err := os.Stat(gen); err != nil {
		t.Errorf("BuildConfig not generated: %v", err)
	}
}

func TestBuildCommand_MergeFailure(t *testing.T) {
	t.Parallel()

	root := testutil.AppModule(t)
	res := runCLI(t, Dependencies{Config: staticProvider{}, Merger: conflictMerger{}}, "build", "-C", root)

	if got := exitCode(t, res.err); got != types.ExitBuildFailed {
		t.Errorf("exit code = %d, want %d", got, types.ExitBuildFailed)
	}
	if !strings.Contains(res.stderr, "Build failed in mergeManifest (run)") {
		t.Errorf("stderr missing failure header:\n%s", res.stderr)
	}
	if !strings.Contains(res.stderr, "--verbose") {
		t.Errorf("stderr missing verbose hint:\n%s", res.stderr)
	}
	// BuildConfig ran before the failure and stays on disk.
	gen := filepath.Join(root, "build", "gen", "com", "example", "app", "BuildConfig.java")
	if _, err := os.Stat(gen); err != nil {
		t.Errorf("BuildConfig removed after failure: %v", err)
	}
}

func TestBuildCommand_VerboseRendersCatalogEntry(t *testing.T) {
	t.Parallel()

	root := testutil.AppModule(t)
	res := runCLI(t, Dependencies{Config: staticProvider{}, Merger: conflictMerger{}}, "build", "-v", "-C", root)

	if res.err == nil {
		t.Fatal("build succeeded, want merge failure")
	}
	if !strings.Contains(res.stderr, "Error chain:") {
		t.Errorf("verbose stderr missing error chain:\n%s", res.stderr)
	}
	if !strings.Contains(res.stderr, "manifest merger reported an error") {
		t.Errorf("verbose stderr missing catalog entry:\n%s", res.stderr)
	}
}

func TestConfigLoadFailure(t *testing.T) {
	t.Parallel()

	provider := staticProvider{err: errors.New("config.cue: log_level: conflicting values")}
	res := runCLI(t, Dependencies{Config: provider}, "inspect", "-C", t.TempDir())

	if got := exitCode(t, res.err); got != types.ExitUsage {
		t.Errorf("exit code = %d, want %d", got, types.ExitUsage)
	}
	if !strings.Contains(res.stderr, "conflicting values") {
		t.Errorf("stderr missing cause:\n%s", res.stderr)
	}
}

func TestInspectCommand(t *testing.T) {
	t.Parallel()

	root := testutil.AppModule(t)
	res := runCLI(t, Dependencies{Config: staticProvider{files: []string{"/etc/droidforge.cue"}}}, "inspect", "-C", root)
	if res.err != nil {
		t.Fatalf("inspect: %v", res.err)
	}
	for _, want := range []string{"com.example.app", "application", "24", "34", "1.7", "src/main/AndroidManifest.xml", "/etc/droidforge.cue"} {
		if !strings.Contains(filepath.ToSlash(res.stdout), want) {
			t.Errorf("inspect output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Signing = config.SigningConfig{StoreFile: "release.jks", KeyAlias: "release", StorePassword: "hunter2"}

	tests := []struct {
		name    string
		format  string
		want    []string
		wantErr bool
	}{
		{name: "text", format: "text", want: []string{"store_file", "release.jks", "********"}},
		{name: "toml", format: "toml", want: []string{"[signing]", "store_file = 'release.jks'", "store_password = '********'"}},
		{name: "cue", format: "cue", want: []string{"signing:", "release.jks"}},
		{name: "unknown", format: "yaml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := runCLI(t, Dependencies{Config: staticProvider{cfg: cfg}}, "config", "show", "--format", tt.format, "-C", t.TempDir())
			if tt.wantErr {
				if res.err == nil {
					t.Fatal("config show succeeded, want error")
				}
				return
			}
			if res.err != nil {
				t.Fatalf("config show: %v", res.err)
			}
			if strings.Contains(res.stdout, "hunter2") {
				t.Errorf("password leaked:\n%s", res.stdout)
			}
			for _, want := range tt.want {
				if !strings.Contains(res.stdout, want) {
					t.Errorf("output missing %q:\n%s", want, res.stdout)
				}
			}
		})
	}
}

func TestBuildDirIgnores(t *testing.T) {
	t.Parallel()

	root := filepath.Join(string(filepath.Separator), "src", "app")
	tests := []struct {
		name     string
		buildDir string
		want     []string
	}{
		{name: "inside root", buildDir: filepath.Join(root, "build"), want: []string{"build/**"}},
		{name: "nested", buildDir: filepath.Join(root, "out", "debug"), want: []string{"out/debug/**"}},
		{name: "root itself", buildDir: root, want: nil},
		{name: "outside root", buildDir: filepath.Join(string(filepath.Separator), "tmp", "build"), want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := buildDirIgnores(root, tt.buildDir)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("buildDirIgnores(%q) = %v, want %v", tt.buildDir, got, tt.want)
			}
		})
	}
}
