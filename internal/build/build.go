// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"fmt"

	"github.com/droidforge/droidforge/internal/buildconfig"
	"github.com/droidforge/droidforge/internal/config"
	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/internal/manifest"
	"github.com/droidforge/droidforge/internal/module"
	"github.com/droidforge/droidforge/internal/signing"
	"github.com/droidforge/droidforge/internal/task"
)

type (
	// Options describes one build. The zero value of every optional field
	// selects the configured or built-in default.
	Options struct {
		// ModuleRoot is the directory holding build.gradle(.kts). Required.
		ModuleRoot string
		// Config is the effective configuration; nil means config.DefaultConfig().
		Config *config.Config

		// SignInput enables the signing task for this package.
		SignInput  string
		SignOutput string

		Merger         manifest.Merger
		Signer         signing.Signer
		KeystoreLoader signing.KeystoreLoader

		// PipelineOptions are passed to task.NewPipeline.
		PipelineOptions []task.PipelineOption
	}

	// Plan is a module with its ordered pipeline, ready to run.
	Plan struct {
		Module   *module.Module
		Pipeline *task.Pipeline
	}
)

func (o Options) config() *config.Config {
	if o.Config == nil {
		return config.DefaultConfig()
	}
	return o.Config
}

// OpenModule opens the module at root with the path, build directory and
// library settings of cfg.
func OpenModule(root string, cfg *config.Config) (*module.Module, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	paths := make(map[module.PathKey]string)
	for k, v := range cfg.Paths.PathOverrides() {
		paths[module.PathKey(k)] = v
	}
	return module.New(root,
		module.WithBuildDir(cfg.BuildDir),
		module.WithPaths(paths),
		module.WithLibraries(cfg.Libraries...),
	)
}

// NewPlan opens the module and builds the pipeline for opts.
func NewPlan(opts Options) (*Plan, error) {
	if opts.ModuleRoot == "" {
		return nil, fmt.Errorf("%w: no module root given", issue.ErrConfiguration)
	}
	cfg := opts.config()

	m, err := OpenModule(opts.ModuleRoot, cfg)
	if err != nil {
		return nil, err
	}

	merger := opts.Merger
	if merger == nil {
		cmd, err := cfg.Tools.ManifestMergerCommand()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", issue.ErrConfiguration, err)
		}
		merger = &manifest.ExecMerger{Command: cmd}
	}

	tasks := []task.Task{
		buildconfig.NewTask(m),
		manifest.NewTask(m, merger),
	}

	if opts.SignInput != "" {
		st, err := newSignTask(opts, cfg, m)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, st)
	}

	p, err := task.NewPipeline(tasks, opts.PipelineOptions...)
	if err != nil {
		return nil, err
	}
	return &Plan{Module: m, Pipeline: p}, nil
}

func newSignTask(opts Options, cfg *config.Config, m *module.Module) (*signing.Task, error) {
	signer := opts.Signer
	if signer == nil {
		cmd, err := cfg.Tools.ApksignerCommand()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", issue.ErrConfiguration, err)
		}
		signer = &signing.ExecSigner{Command: cmd}
	}
	var taskOpts []signing.TaskOption
	if opts.KeystoreLoader != nil {
		taskOpts = append(taskOpts, signing.WithKeystoreLoader(opts.KeystoreLoader))
	}
	return signing.NewTask(SigningConfig(cfg, opts.SignInput, opts.SignOutput, m), signer, taskOpts...), nil
}

// SigningConfig maps the configured signing identity onto a signing.Config
// for input. Relative key and keystore paths resolve against the module root.
func SigningConfig(cfg *config.Config, input, output string, m *module.Module) signing.Config {
	s := cfg.Signing
	return signing.Config{
		KeyFile:       m.ResolvePath(s.KeyFile),
		CertFile:      m.ResolvePath(s.CertFile),
		StoreFile:     m.ResolvePath(s.StoreFile),
		KeyAlias:      s.KeyAlias,
		StorePassword: s.StorePassword,
		KeyPassword:   s.KeyPassword,
		Input:         input,
		Output:        output,
		MinSdk:        m.MinSdk(),
	}
}

// Run executes the plan. The module is cleared when the run ends, which
// also resets the artifact registry; the returned report keeps its copy.
func (p *Plan) Run(ctx context.Context) (*task.Report, error) {
	detach := p.Pipeline.Artifacts().AttachTo(p.Module)
	defer detach()
	defer p.Module.Clear()
	return p.Pipeline.Run(ctx)
}

// Run builds the plan for opts and executes it.
func Run(ctx context.Context, opts Options) (*task.Report, error) {
	plan, err := NewPlan(opts)
	if err != nil {
		return nil, err
	}
	return plan.Run(ctx)
}

// Sign runs only the signing task, for a package produced outside the
// pipeline. Failures are reported as *issue.BuildError like pipeline runs.
func Sign(ctx context.Context, opts Options) ([]task.Artifact, error) {
	if opts.SignInput == "" {
		return nil, fmt.Errorf("%w: no package to sign", issue.ErrConfiguration)
	}
	if opts.ModuleRoot == "" {
		return nil, fmt.Errorf("%w: no module root given", issue.ErrConfiguration)
	}
	cfg := opts.config()
	m, err := OpenModule(opts.ModuleRoot, cfg)
	if err != nil {
		return nil, err
	}
	st, err := newSignTask(opts, cfg, m)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := st.Prepare(ctx); err != nil {
		return nil, &issue.BuildError{Task: st.Name(), Phase: issue.PhasePrepare, Err: err}
	}
	if err := st.Run(ctx); err != nil {
		return nil, &issue.BuildError{Task: st.Name(), Phase: issue.PhaseRun, Err: err}
	}
	arts := st.Artifacts()
	for i := range arts {
		arts[i].Task = st.Name()
	}
	return arts, nil
}
