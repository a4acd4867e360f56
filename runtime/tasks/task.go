// Package tasks provides the auxiliary worker pool behind task channels.
//
// A dispatching module emits Tasks. The handling module fetches them, runs
// them either inline or on a Pool, and emits a Result per task. Completion
// is tracked on the Task itself so the dispatcher can collect finished tasks
// without a round trip through the result channel.
package tasks

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a task.
type Status int32

const (
	// StatusPending is a task that has been emitted but not picked up.
	StatusPending Status = iota
	// StatusRunning is a task a handler has started.
	StatusRunning
	// StatusCompleted is a task whose result was emitted.
	StatusCompleted
	// StatusFailed is a task whose handler returned an error.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Task carries the context C of one unit of work.
type Task[C any] struct {
	// ID identifies the task across dispatcher and handler
	ID uuid.UUID
	// Context is the input of the task
	Context C
	// CreatedAt is when the dispatcher emitted the task
	CreatedAt time.Time

	status atomic.Int32
}

// NewTask wraps ctx in a pending task.
func NewTask[C any](ctx C) *Task[C] {
	return &Task[C]{
		ID:        uuid.New(),
		Context:   ctx,
		CreatedAt: time.Now(),
	}
}

// Status returns the current state.
func (t *Task[C]) Status() Status {
	return Status(t.status.Load())
}

// Start marks the task running. It reports false if the task was already
// picked up.
func (t *Task[C]) Start() bool {
	return t.status.CompareAndSwap(int32(StatusPending), int32(StatusRunning))
}

// Complete marks the task completed.
func (t *Task[C]) Complete() {
	t.status.Store(int32(StatusCompleted))
}

// Fail marks the task failed.
func (t *Task[C]) Fail() {
	t.status.Store(int32(StatusFailed))
}

// Done reports whether the task reached a final state.
func (t *Task[C]) Done() bool {
	s := t.Status()
	return s == StatusCompleted || s == StatusFailed
}

// Result pairs a task with the value its handler produced.
type Result[C, R any] struct {
	Task  *Task[C]
	Value R
}
