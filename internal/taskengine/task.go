// Package taskengine is the minimal periodic task runner the supervisor core
// drives itself with. Its internals are not dictated by the protocol it
// serves: the core only needs "register N callbacks, each on its own
// whole-second interval, run them one at a time, stop on command."
package taskengine

import (
	"time"

	"github.com/google/uuid"
)

// ActionFunc is a single task's body. A non-nil error is logged by the
// caller that invoked Run; it never stops the engine on its own.
type ActionFunc func() error

// Task pairs a callback with a fixed interval and bookkeeping for when it
// is next due. The interval is any time.Duration; it is not rounded to
// whole seconds, although the supervisor core's defaults are whole seconds.
type Task struct {
	id       uuid.UUID
	action   ActionFunc
	interval time.Duration
	nextRun  time.Time
}

// NewTask creates a task whose first run is one interval from now, matching
// the original C scheduler (which only ever evaluates a task after its own
// period has elapsed, never on registration).
func NewTask(action ActionFunc, interval time.Duration) *Task {
	return &Task{
		id:       uuid.New(),
		action:   action,
		interval: interval,
		nextRun:  time.Now().Add(interval),
	}
}

// ID returns the task's identifier, stable for the task's lifetime.
func (t *Task) ID() uuid.UUID {
	return t.id
}

// DueAt reports when the task is next scheduled to run.
func (t *Task) DueAt() time.Time {
	return t.nextRun
}

// Run executes the task's action and advances its next-run time by one
// interval from now, so a slow task does not get scheduled in a tight
// catch-up loop.
func (t *Task) Run() error {
	err := t.action()
	t.nextRun = time.Now().Add(t.interval)
	return err
}
