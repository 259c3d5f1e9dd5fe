// Package task implements the Task state machine shared across turns
// of a conversation (spec §3).
package task

import (
	"fmt"
	"time"
)

// State is one of a Task's allowed states.
type State string

const (
	StateSubmitted     State = "submitted"
	StateWorking       State = "working"
	StateInputRequired State = "input_required"
	StateCompleted     State = "completed"
	StateFailed        State = "failed"
	StateCanceled      State = "canceled"
)

// terminal reports whether a state has no further transitions.
func (s State) terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCanceled:
		return true
	default:
		return false
	}
}

// allowedTransitions encodes the state machine's edges exactly as
// spec.md §3 lists them: submitted→working; working→{completed,
// failed, canceled, input_required}; input_required→working.
var allowedTransitions = map[State]map[State]bool{
	StateSubmitted: {
		StateWorking: true,
	},
	StateWorking: {
		StateCompleted:     true,
		StateFailed:        true,
		StateCanceled:      true,
		StateInputRequired: true,
	},
	StateInputRequired: {
		StateWorking: true,
	},
}

// Artifact is an opaque named output a task produces.
type Artifact struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// Status captures a task's current state, when it was last updated,
// and an optional human-readable message.
type Status struct {
	State     State     `json:"state"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
}

// Task is a unit of work with a small state machine, tracked across
// turns of a conversation.
type Task struct {
	ID        string     `json:"id"`
	ContextID string     `json:"contextId,omitempty"`
	Status    Status     `json:"status"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
	History   []string   `json:"history,omitempty"`
}

// New creates a Task in the submitted state.
func New(id, contextID string) Task {
	return Task{
		ID:        id,
		ContextID: contextID,
		Status: Status{
			State:     StateSubmitted,
			Timestamp: time.Now().UTC(),
		},
	}
}

// ErrInvalidTransition reports an attempt to move a task between
// states the machine does not allow.
type ErrInvalidTransition struct {
	From, To State
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("task: invalid transition %s -> %s", e.From, e.To)
}

// Transition moves t to next, returning the updated task. It refuses
// transitions out of a terminal state and transitions not named in
// the state table.
func (t Task) Transition(next State, message string) (Task, error) {
	if t.Status.State.terminal() {
		return t, &ErrInvalidTransition{From: t.Status.State, To: next}
	}
	if !allowedTransitions[t.Status.State][next] {
		return t, &ErrInvalidTransition{From: t.Status.State, To: next}
	}

	updated := t
	updated.Status = Status{
		State:     next,
		Timestamp: time.Now().UTC(),
		Message:   message,
	}
	return updated, nil
}

// IsTerminal reports whether the task has reached a state with no
// further transitions.
func (t Task) IsTerminal() bool {
	return t.Status.State.terminal()
}
