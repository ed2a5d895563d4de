// SPDX-License-Identifier: MPL-2.0

package task

import "context"

type (
	// Task is one artifact-generation step.
	Task interface {
		// Name identifies the task in logs, errors and DependsOn lists.
		Name() string
		// Prepare validates and creates prerequisites and snapshots the
		// configuration Run will use.
		Prepare(ctx context.Context) error
		// Run generates the task's output.
		Run(ctx context.Context) error
	}

	// Dependent is implemented by tasks that must run after other tasks.
	Dependent interface {
		DependsOn() []string
	}

	// Producer is implemented by tasks that write artifacts. Artifacts is
	// called after a successful Run.
	Producer interface {
		Artifacts() []Artifact
	}

	// Artifact is a file written by a task. It is overwritten on every run.
	Artifact struct {
		Name string
		Path string
		// Task is the name of the producing task.
		Task string
	}
)
