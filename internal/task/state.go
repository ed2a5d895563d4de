// SPDX-License-Identifier: MPL-2.0

package task

import (
	"errors"
	"fmt"
)

const (
	// StateCreated indicates the task has not been prepared.
	StateCreated State = iota
	// StatePrepared indicates Prepare succeeded.
	StatePrepared
	// StateRan indicates Run returned without error and the outcome is
	// being recorded.
	StateRan
	// StateSucceeded is terminal: the task completed and its artifacts are recorded.
	StateSucceeded
	// StateFailed is terminal: Prepare or Run returned an error.
	StateFailed
)

var (
	// ErrInvalidState is returned when a State value is not one of the defined lifecycle states.
	ErrInvalidState = errors.New("invalid task state")
	// ErrInvalidTransition is returned for a transition the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid task state transition")
)

type (
	// State represents the lifecycle state of a task within one pipeline run.
	State int32

	// InvalidStateError is returned when a State value is not recognized.
	InvalidStateError struct {
		Value State
	}

	// InvalidTransitionError reports a forbidden From -> To transition.
	InvalidTransitionError struct {
		Task     string
		From, To State
	}
)

// String returns a human-readable representation of the task state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StatePrepared:
		return "prepared"
	case StateRan:
		return "ran"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid task state %d (valid: 0=created, 1=prepared, 2=ran, 3=succeeded, 4=failed)", e.Value)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("task %s: cannot move from %s to %s", e.Task, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// Validate returns nil if the State is one of the defined lifecycle states.
func (s State) Validate() error {
	switch s {
	case StateCreated, StatePrepared, StateRan, StateSucceeded, StateFailed:
		return nil
	default:
		return &InvalidStateError{Value: s}
	}
}

// IsTerminal returns true for Succeeded and Failed.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// CanTransition reports whether the lifecycle allows s -> to.
func (s State) CanTransition(to State) bool {
	switch s {
	case StateCreated:
		return to == StatePrepared || to == StateFailed
	case StatePrepared:
		return to == StateRan || to == StateFailed
	case StateRan:
		return to == StateSucceeded || to == StateFailed
	default:
		return false
	}
}
