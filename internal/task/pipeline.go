// SPDX-License-Identifier: MPL-2.0

package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/droidforge/droidforge/internal/dag"
	"github.com/droidforge/droidforge/internal/issue"
	"github.com/droidforge/droidforge/internal/logging"
)

var (
	// ErrDuplicateTask is returned when two tasks share a name.
	ErrDuplicateTask = errors.New("duplicate task name")
	// ErrUnknownDependency is returned when DependsOn names a task that is
	// not in the pipeline.
	ErrUnknownDependency = errors.New("unknown task dependency")
)

type (
	// Pipeline runs tasks strictly sequentially in dependency order.
	Pipeline struct {
		tasks     []Task
		artifacts *ArtifactRegistry
		newID     func() string
		now       func() time.Time
	}

	// PipelineOption configures a Pipeline.
	PipelineOption func(*Pipeline)

	// Result is the outcome of one task in one run.
	Result struct {
		Task     string
		State    State
		Duration time.Duration
		Err      error
	}

	// Report summarizes one pipeline run. Tasks that never started keep
	// StateCreated.
	Report struct {
		BuildID   string
		Results   []Result
		Artifacts []Artifact
	}
)

// WithArtifactRegistry records produced artifacts in r instead of a private
// registry.
func WithArtifactRegistry(r *ArtifactRegistry) PipelineOption {
	return func(p *Pipeline) { p.artifacts = r }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// WithBuildIDs replaces the UUID build id generator, for tests.
func WithBuildIDs(newID func() string) PipelineOption {
	return func(p *Pipeline) { p.newID = newID }
}

// NewPipeline orders tasks by their DependsOn edges, keeping insertion order
// among independent tasks.
func NewPipeline(tasks []Task, opts ...PipelineOption) (*Pipeline, error) {
	g := dag.New()
	byName := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		if _, dup := byName[t.Name()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTask, t.Name())
		}
		byName[t.Name()] = t
		g.AddNode(t.Name())
	}
	for _, t := range tasks {
		d, ok := t.(Dependent)
		if !ok {
			continue
		}
		for _, dep := range d.DependsOn() {
			if !g.Has(dep) {
				return nil, fmt.Errorf("%w: %s depends on %s", ErrUnknownDependency, t.Name(), dep)
			}
			g.AddEdge(dep, t.Name())
		}
	}
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		artifacts: NewArtifactRegistry(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, name := range order {
		p.tasks = append(p.tasks, byName[name])
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Tasks returns the task names in execution order.
func (p *Pipeline) Tasks() []string {
	names := make([]string, len(p.tasks))
	for i, t := range p.tasks {
		names[i] = t.Name()
	}
	return names
}

// Artifacts returns the registry the pipeline records into.
func (p *Pipeline) Artifacts() *ArtifactRegistry { return p.artifacts }

// Run executes every task. The first failure stops the run and is returned
// as an *issue.BuildError; the report is returned in both cases and lists
// the artifacts of the tasks that completed.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	rep := &Report{BuildID: p.newID(), Results: make([]Result, len(p.tasks))}
	for i, t := range p.tasks {
		rep.Results[i] = Result{Task: t.Name(), State: StateCreated}
	}
	log := logging.FromContext(ctx).With("build_id", rep.BuildID)
	ctx = logging.WithLogger(ctx, log)
	log.Info("build started", "tasks", len(p.tasks))

	for i, t := range p.tasks {
		res := &rep.Results[i]
		start := p.now()
		err := p.runOne(ctx, t, res)
		res.Duration = p.now().Sub(start)
		if err != nil {
			res.Err = err
			rep.Artifacts = p.artifacts.All()
			log.Error("task failed", "task", t.Name(), "duration", res.Duration, "error", err)
			return rep, err
		}
		log.Info("task finished", "task", t.Name(), "duration", res.Duration)
	}

	rep.Artifacts = p.artifacts.All()
	log.Info("build succeeded", "artifacts", len(rep.Artifacts))
	return rep, nil
}

func (p *Pipeline) runOne(ctx context.Context, t Task, res *Result) error {
	log := logging.FromContext(ctx).With("task", t.Name())

	fail := func(phase issue.Phase, err error) error {
		res.State = StateFailed
		return &issue.BuildError{Task: t.Name(), Phase: phase, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(issue.PhasePrepare, err)
	}
	log.Debug("preparing", "phase", issue.PhasePrepare)
	if err := t.Prepare(ctx); err != nil {
		return fail(issue.PhasePrepare, err)
	}
	if err := transition(t.Name(), res, StatePrepared); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fail(issue.PhaseRun, err)
	}
	log.Debug("running", "phase", issue.PhaseRun)
	if err := t.Run(ctx); err != nil {
		return fail(issue.PhaseRun, err)
	}
	if err := transition(t.Name(), res, StateRan); err != nil {
		return err
	}

	if prod, ok := t.(Producer); ok {
		arts := prod.Artifacts()
		for j := range arts {
			arts[j].Task = t.Name()
		}
		p.artifacts.Record(arts...)
		for _, a := range arts {
			log.Debug("artifact written", "artifact", a.Name, "path", a.Path)
		}
	}
	return transition(t.Name(), res, StateSucceeded)
}

func transition(name string, res *Result, to State) error {
	if !res.State.CanTransition(to) {
		return &InvalidTransitionError{Task: name, From: res.State, To: to}
	}
	res.State = to
	return nil
}

// Failed returns the failed result, if any.
func (r *Report) Failed() (Result, bool) {
	for _, res := range r.Results {
		if res.State == StateFailed {
			return res, true
		}
	}
	return Result{}, false
}
