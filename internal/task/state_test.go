// SPDX-License-Identifier: MPL-2.0

package task

import (
	"errors"
	"testing"
)

func TestState_String(t *testing.T) {
	t.Parallel()

	tests := map[State]string{
		StateCreated:   "created",
		StatePrepared:  "prepared",
		StateRan:       "ran",
		StateSucceeded: "succeeded",
		StateFailed:    "failed",
		State(42):      "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestState_Validate(t *testing.T) {
	t.Parallel()

	for _, s := range []State{StateCreated, StatePrepared, StateRan, StateSucceeded, StateFailed} {
		if err := s.Validate(); err != nil {
			t.Errorf("State(%d).Validate() = %v", s, err)
		}
	}
	err := State(-1).Validate()
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Validate(-1) = %v, want ErrInvalidState", err)
	}
}

func TestState_Transitions(t *testing.T) {
	t.Parallel()

	allowed := map[[2]State]bool{
		{StateCreated, StatePrepared}: true,
		{StateCreated, StateFailed}:   true,
		{StatePrepared, StateRan}:     true,
		{StatePrepared, StateFailed}:  true,
		{StateRan, StateSucceeded}:    true,
		{StateRan, StateFailed}:       true,
	}
	states := []State{StateCreated, StatePrepared, StateRan, StateSucceeded, StateFailed}
	for _, from := range states {
		for _, to := range states {
			if got := from.CanTransition(to); got != allowed[[2]State{from, to}] {
				t.Errorf("%s -> %s allowed = %v", from, to, got)
			}
		}
	}

	if !StateSucceeded.IsTerminal() || !StateFailed.IsTerminal() || StateRan.IsTerminal() {
		t.Error("IsTerminal() mismatch")
	}
}

func TestInvalidTransitionError(t *testing.T) {
	t.Parallel()

	err := error(&InvalidTransitionError{Task: "signApk", From: StateCreated, To: StateRan})
	if err.Error() != "task signApk: cannot move from created to ran" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Error("should unwrap to ErrInvalidTransition")
	}
}
