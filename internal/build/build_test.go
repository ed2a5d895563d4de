// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"crypto/x509/pkix"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/droidforge/droidforge/internal/buildconfig"
	"github.com/droidforge/droidforge/internal/config"
	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/internal/manifest"
	"github.com/droidforge/droidforge/internal/signing"
	"github.com/droidforge/droidforge/internal/task"
	"github.com/droidforge/droidforge/internal/testutil"
)

// copyMerger returns the main manifest unchanged.
type copyMerger struct {
	got manifest.MergeRequest
}

func (c *copyMerger) Merge(_ context.Context, req manifest.MergeRequest) (*manifest.Report, error) {
	c.got = req
	doc, err := os.ReadFile(req.Set.Main)
	if err != nil {
		return nil, err
	}
	return &manifest.Report{Document: doc}, nil
}

type failingMerger struct{}

func (failingMerger) Merge(context.Context, manifest.MergeRequest) (*manifest.Report, error) {
	return &manifest.Report{Error: true, Text: "conflict on <application>"}, nil
}

// copySigner copies the input to the output path.
type copySigner struct {
	got signing.Request
}

func (c *copySigner) Sign(_ context.Context, req signing.Request) error {
	c.got = req
	data, err := os.ReadFile(req.InputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(req.OutputPath, data, 0o644)
}

func TestRun_BuildsBuildConfigAndManifest(t *testing.T) {
	t.Parallel()

	root := testutil.AppModule(t)
	merger := &copyMerger{}
	rep, err := Run(context.Background(), Options{ModuleRoot: root, Merger: merger})
	require.NoError(t, err)

	require.Len(t, rep.Results, 2)
	for _, r := range rep.Results {
		require.Equal(t, task.StateSucceeded, r.State, r.Task)
	}

	bc := filepath.Join(root, "build", "gen", "com", "example", "app", buildconfig.FileName)
	src := testutil.MustReadFile(t, bc)
	require.Contains(t, src, "package com.example.app;")
	require.Contains(t, src, `public static final String VERSION_NAME = "1.7";`)

	merged := testutil.MustReadFile(t, filepath.Join(root, "build", "bin", manifest.FileName))
	require.Contains(t, merged, `xmlns:tools="http://schemas.android.com/tools"`)

	require.Equal(t, "com.example.app", merger.got.Overrides[manifest.PropertyPackage])
	require.Equal(t, "24", merger.got.Overrides[manifest.PropertyMinSdkVersion])

	var names []string
	for _, a := range rep.Artifacts {
		names = append(names, a.Task+":"+a.Name)
	}
	if diff := cmp.Diff([]string{
		buildconfig.TaskName + ":" + buildconfig.FileName,
		manifest.TaskName + ":" + manifest.FileName,
	}, names); diff != "" {
		t.Errorf("artifacts mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_SignsWhenInputGiven(t *testing.T) {
	t.Parallel()

	root := testutil.AppModule(t)
	key, der := testutil.NewRSAKey(t)
	cert := testutil.NewCertificate(t, key, pkix.Name{CommonName: "CI"})
	testutil.MustWriteFile(t, filepath.Join(root, "keys", "ci.pk8"), string(der))
	testutil.MustWriteFile(t, filepath.Join(root, "keys", "ci.pem"), string(testutil.PEMCertificates(cert)))
	apk := filepath.Join(root, "build", "outputs", "app-unsigned.apk")
	testutil.MustWriteFile(t, apk, "zip bytes")

	cfg := config.DefaultConfig()
	// Relative to the module root.
	cfg.Signing = config.SigningConfig{KeyFile: "keys/ci.pk8", CertFile: "keys/ci.pem"}

	signer := &copySigner{}
	plan, err := NewPlan(Options{ModuleRoot: root, Config: cfg, SignInput: apk, Merger: &copyMerger{}, Signer: signer})
	require.NoError(t, err)
	require.Equal(t, []string{buildconfig.TaskName, manifest.TaskName, signing.TaskName}, plan.Pipeline.Tasks())

	rep, err := plan.Run(context.Background())
	require.NoError(t, err)

	signed := filepath.Join(root, "build", "outputs", "app-signed.apk")
	require.Equal(t, "zip bytes", testutil.MustReadFile(t, signed))
	require.Equal(t, signed, signer.got.OutputPath)
	require.Len(t, signer.got.Signers, 1)
	require.Equal(t, "CI", signer.got.Signers[0].Name)
	require.EqualValues(t, 24, signer.got.MinSdk)

	a, ok := findArtifact(rep.Artifacts, "app-signed.apk")
	require.True(t, ok)
	require.Equal(t, signing.TaskName, a.Task)

	// Clear at the end of the run resets the registry; the report keeps its copy.
	require.Empty(t, plan.Pipeline.Artifacts().All())
}

func TestRun_FailFast(t *testing.T) {
	t.Parallel()

	root := testutil.AppModule(t)
	rep, err := Run(context.Background(), Options{ModuleRoot: root, Merger: failingMerger{}})
	require.Error(t, err)

	var be *issue.BuildError
	require.True(t, errors.As(err, &be))
	require.Equal(t, manifest.TaskName, be.Task)
	require.ErrorIs(t, err, issue.ErrMerge)

	require.Equal(t, task.StateSucceeded, rep.Results[0].State)
	require.Equal(t, task.StateFailed, rep.Results[1].State)

	// The BuildConfig output of the earlier task stays on disk.
	_, statErr := os.Stat(filepath.Join(root, "build", "gen", "com", "example", "app", buildconfig.FileName))
	require.NoError(t, statErr)
}

func TestRun_ConfigOverridesModuleLayout(t *testing.T) {
	t.Parallel()

	root := testutil.WriteModule(t, testutil.ModuleFiles{
		"build.gradle.kts":              `android { namespace = "org.sample" ; defaultConfig { applicationId = "org.sample.kts" } }`,
		"manifests/AndroidManifest.xml": testutil.MainManifest,
	})
	cfg := config.DefaultConfig()
	cfg.BuildDir = "out"
	cfg.Paths.AndroidManifestFile = "manifests/AndroidManifest.xml"

	merger := &copyMerger{}
	_, err := Run(context.Background(), Options{ModuleRoot: root, Config: cfg, Merger: merger})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "manifests", "AndroidManifest.xml"), merger.got.Set.Main)

	src := testutil.MustReadFile(t, filepath.Join(root, "out", "gen", "org", "sample", "kts", buildconfig.FileName))
	require.True(t, strings.HasPrefix(src, "/**"))
}

func TestNewPlan_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewPlan(Options{})
	require.ErrorIs(t, err, issue.ErrConfiguration)

	_, err = NewPlan(Options{ModuleRoot: t.TempDir()})
	require.ErrorIs(t, err, issue.ErrFileSystem)

	cfg := config.DefaultConfig()
	cfg.Tools.ManifestMerger = `merger "unterminated`
	_, err = NewPlan(Options{ModuleRoot: testutil.AppModule(t), Config: cfg})
	require.ErrorIs(t, err, issue.ErrConfiguration)
}

func TestSign_Standalone(t *testing.T) {
	t.Parallel()

	root := testutil.AppModule(t)
	key, der := testutil.NewECKey(t)
	cert := testutil.NewCertificate(t, key, pkix.Name{CommonName: "Release"})
	testutil.MustWriteFile(t, filepath.Join(root, "release.pk8"), string(der))
	testutil.MustWriteFile(t, filepath.Join(root, "release.pem"), string(testutil.PEMCertificates(cert)))
	apk := filepath.Join(t.TempDir(), "app.apk")
	testutil.MustWriteFile(t, apk, "zip bytes")
	out := filepath.Join(t.TempDir(), "dist", "app-release.apk")

	cfg := config.DefaultConfig()
	cfg.Signing = config.SigningConfig{KeyFile: "release.pk8", CertFile: "release.pem"}

	arts, err := Sign(context.Background(), Options{
		ModuleRoot: root, Config: cfg, SignInput: apk, SignOutput: out, Signer: &copySigner{},
	})
	require.NoError(t, err)
	require.Equal(t, []task.Artifact{{Name: "app-release.apk", Path: out, Task: signing.TaskName}}, arts)
	require.Equal(t, "zip bytes", testutil.MustReadFile(t, out))

	// No BuildConfig or manifest is produced.
	_, err = os.Stat(filepath.Join(root, "build", "bin", manifest.FileName))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSign_Errors(t *testing.T) {
	t.Parallel()

	root := testutil.AppModule(t)

	_, err := Sign(context.Background(), Options{ModuleRoot: root})
	require.ErrorIs(t, err, issue.ErrConfiguration)

	// Nothing configured to sign with.
	apk := filepath.Join(root, "app.apk")
	testutil.MustWriteFile(t, apk, "zip")
	_, err = Sign(context.Background(), Options{ModuleRoot: root, SignInput: apk, Signer: &copySigner{}})
	var be *issue.BuildError
	require.ErrorAs(t, err, &be)
	require.Equal(t, signing.TaskName, be.Task)
	require.Equal(t, issue.PhasePrepare, be.Phase)
	require.ErrorIs(t, err, issue.ErrConfiguration)
}

func findArtifact(arts []task.Artifact, name string) (task.Artifact, bool) {
	for _, a := range arts {
		if a.Name == name {
			return a, true
		}
	}
	return task.Artifact{}, false
}
