// SPDX-License-Identifier: MPL-2.0

package issue

import "fmt"

// Phase names the half of the task contract that failed.
type Phase string

const (
	PhasePrepare Phase = "prepare"
	PhaseRun     Phase = "run"
)

// BuildError is the single build-aborting failure returned by the pipeline.
// It records which task and phase failed and wraps the task's error so that
// errors.Is still reaches the kind sentinel.
type BuildError struct {
	Task  string
	Phase Phase
	Err   error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed in task %s (%s): %v", e.Task, e.Phase, e.Err)
}

// Unwrap returns the task error.
func (e *BuildError) Unwrap() error { return e.Err }

// Kind classifies the wrapped task error.
func (e *BuildError) Kind() Kind { return KindOf(e.Err) }
