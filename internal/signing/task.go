// SPDX-License-Identifier: MPL-2.0

package signing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/internal/logging"
	"github.com/droidforge/droidforge/internal/manifest"
	"github.com/droidforge/droidforge/internal/task"
)

// TaskName is the pipeline name of the signing task.
const TaskName = "signApk"

type (
	// Task signs the configured package.
	Task struct {
		cfg    Config
		signer Signer
		loader KeystoreLoader
		id     *Identity
	}

	// TaskOption configures a Task.
	TaskOption func(*Task)
)

var (
	_ task.Task      = (*Task)(nil)
	_ task.Dependent = (*Task)(nil)
	_ task.Producer  = (*Task)(nil)
)

// WithKeystoreLoader replaces DefaultLoader.
func WithKeystoreLoader(l KeystoreLoader) TaskOption {
	return func(t *Task) { t.loader = l }
}

// NewTask returns the signing task for cfg.
func NewTask(cfg Config, signer Signer, opts ...TaskOption) *Task {
	t := &Task{cfg: cfg, signer: signer, loader: DefaultLoader{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Task) Name() string { return TaskName }

func (t *Task) DependsOn() []string { return []string{manifest.TaskName} }

// Prepare checks the input, creates the output directory and loads the
// signer identity.
func (t *Task) Prepare(ctx context.Context) error {
	if err := t.cfg.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(t.cfg.Input); err != nil {
		return fmt.Errorf("%w: input package: %w", issue.ErrFileSystem, err)
	}
	outDir := filepath.Dir(t.cfg.OutputPath())
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", issue.ErrFileSystem, outDir, err)
	}

	var (
		id  *Identity
		err error
	)
	if t.cfg.UsesKeystore() {
		id, err = LoadFromKeystore(KeystoreRef{
			Path:          t.cfg.StoreFile,
			Alias:         t.cfg.KeyAlias,
			StorePassword: t.cfg.StorePassword,
			KeyPassword:   t.cfg.KeyPassword,
		}, t.loader)
	} else {
		id, err = LoadFromFiles(t.cfg.KeyFile, t.cfg.CertFile)
	}
	if err != nil {
		return err
	}
	t.id = id
	logging.FromContext(ctx).Debug("loaded signer identity", "name", id.Name, "algorithm", id.Algorithm)
	return nil
}

// Run signs the package.
func (t *Task) Run(ctx context.Context) error {
	out := t.cfg.OutputPath()
	err := t.signer.Sign(ctx, Request{
		Signers:    []*Identity{t.id},
		InputPath:  t.cfg.Input,
		OutputPath: out,
		MinSdk:     t.cfg.MinSdk,
	})
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("signed package", "path", out, "signer", t.id.Name)
	return nil
}

// Identity is the signer loaded by Prepare.
func (t *Task) Identity() *Identity { return t.id }

func (t *Task) Artifacts() []task.Artifact {
	out := t.cfg.OutputPath()
	return []task.Artifact{{Name: filepath.Base(out), Path: out}}
}
