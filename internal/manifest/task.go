// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/droidforge/droidforge/internal/buildconfig"
	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/internal/logging"
	"github.com/droidforge/droidforge/internal/task"
	"github.com/droidforge/droidforge/pkg/types"
)

const (
	// TaskName is the pipeline name of the manifest task.
	TaskName = "mergeManifest"
	// FileName is the merged manifest file name.
	FileName = "AndroidManifest.xml"
)

type (
	// Module is the part of module.Module the task reads.
	Module interface {
		BuildDir() string
		ManifestFile() string
		LibraryManifestCandidates() []string
		ResolveApplicationID() (types.PackageName, error)
		MinSdk() types.SdkLevel
		TargetSdk() types.SdkLevel
		VersionCode() int
		VersionName() string
	}

	// Task merges the module manifests into <build>/bin/AndroidManifest.xml.
	Task struct {
		module Module
		merger Merger
		req    MergeRequest
		out    string
	}
)

var (
	_ task.Task      = (*Task)(nil)
	_ task.Dependent = (*Task)(nil)
	_ task.Producer  = (*Task)(nil)
)

// NewTask returns the manifest task for m using merger.
func NewTask(m Module, merger Merger) *Task {
	return &Task{module: m, merger: merger}
}

func (t *Task) Name() string { return TaskName }

func (t *Task) DependsOn() []string { return []string{buildconfig.TaskName} }

// Prepare resolves the package, creates the output file and collects the
// manifest set.
func (t *Task) Prepare(ctx context.Context) error {
	pkg, err := t.module.ResolveApplicationID()
	if err != nil {
		return err
	}

	binDir := filepath.Join(t.module.BuildDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", issue.ErrFileSystem, binDir, err)
	}
	t.out = filepath.Join(binDir, FileName)
	if err := touch(t.out); err != nil {
		return fmt.Errorf("%w: create %s: %w", issue.ErrFileSystem, t.out, err)
	}

	set, err := CollectSet(t.module.ManifestFile(), t.module.LibraryManifestCandidates(), logging.FromContext(ctx))
	if err != nil {
		return err
	}

	t.req = MergeRequest{
		Set:  set,
		Type: MergeApplication,
		Overrides: map[Property]string{
			PropertyPackage:          pkg.String(),
			PropertyMinSdkVersion:    t.module.MinSdk().String(),
			PropertyTargetSdkVersion: t.module.TargetSdk().String(),
			PropertyVersionCode:      strconv.Itoa(t.module.VersionCode()),
			PropertyVersionName:      t.module.VersionName(),
		},
	}
	return nil
}

// Run merges, finalizes and writes the manifest.
func (t *Task) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)

	report, err := t.merger.Merge(ctx, t.req)
	if err != nil {
		return err
	}
	if report.Error {
		log.Error("manifest merge failed", "report", report.Text)
		return &MergeError{Report: report.Text}
	}
	if len(report.Document) == 0 {
		log.Warn("manifest merger produced no document", "output", t.out)
		return nil
	}

	final, err := Finalize(report.Document)
	if err != nil {
		return err
	}
	if err := os.WriteFile(t.out, final, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", issue.ErrFileSystem, t.out, err)
	}
	log.Info("merged manifest", "path", t.out, "libraries", len(t.req.Set.Libraries))
	return nil
}

// Request is the merge request built by Prepare.
func (t *Task) Request() MergeRequest { return t.req }

// Output is the merged manifest path, known after Prepare.
func (t *Task) Output() string { return t.out }

func (t *Task) Artifacts() []task.Artifact {
	return []task.Artifact{{Name: FileName, Path: t.out}}
}

// touch creates path empty unless it already exists.
func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}
