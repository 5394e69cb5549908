package taskengine

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Engine runs a small set of Tasks cooperatively on a single goroutine: at
// most one task's action is ever executing at a time, and each runs to
// completion before the next is considered. This mirrors the original
// single-threaded scheduler the watchdog protocol was designed against.
type Engine struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*Task

	stop    chan struct{}
	stopCh  sync.Once
	done    chan struct{}
	started atomic.Bool

	// OnTaskError receives any error returned by a task's action. It is
	// never called from inside a signal path; the engine only ticks from
	// its own goroutine.
	OnTaskError func(id uuid.UUID, err error)

	tick time.Duration
}

// New creates an empty engine. tick is the polling granularity used to
// notice that a task has become due; it should be smaller than the
// smallest task interval the caller intends to register.
func New(tick time.Duration) *Engine {
	if tick <= 0 {
		tick = 200 * time.Millisecond
	}
	return &Engine{
		tasks: make(map[uuid.UUID]*Task),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
		tick:  tick,
	}
}

// Add registers a new task and returns its identifier.
func (e *Engine) Add(action ActionFunc, interval time.Duration) uuid.UUID {
	t := NewTask(action, interval)
	e.mu.Lock()
	e.tasks[t.id] = t
	e.mu.Unlock()
	return t.id
}

// Remove drops a task from the engine. Removing an unknown id is a no-op.
func (e *Engine) Remove(id uuid.UUID) {
	e.mu.Lock()
	delete(e.tasks, id)
	e.mu.Unlock()
}

// Size reports how many tasks are currently registered.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tasks)
}

// Run drives the engine until Stop is called. It is meant to be the sole
// body of whichever goroutine (or the main thread, for the Watchdog role)
// owns the engine.
func (e *Engine) Run() {
	e.started.Store(true)
	defer close(e.done)
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			e.runDue()
		}
	}
}

// Stop asks the engine to return from Run as soon as the task currently
// running, if any, has finished; tasks still due in that tick are skipped.
// It is safe to call more than once and from any goroutine.
func (e *Engine) Stop() {
	e.stopCh.Do(func() { close(e.stop) })
}

// Wait blocks until Run has returned. If Run was never called — a setup
// failure can tear down an Engine before it's ever started — Wait returns
// immediately rather than blocking forever.
func (e *Engine) Wait() {
	if !e.started.Load() {
		return
	}
	<-e.done
}

func (e *Engine) runDue() {
	now := time.Now()

	e.mu.Lock()
	due := make([]*Task, 0, len(e.tasks))
	for _, t := range e.tasks {
		if !t.nextRun.After(now) {
			due = append(due, t)
		}
	}
	e.mu.Unlock()

	// Deterministic order keeps behavior reproducible in tests even when
	// several tasks share a tick.
	sort.Slice(due, func(i, j int) bool { return due[i].id.String() < due[j].id.String() })

	for _, t := range due {
		select {
		case <-e.stop:
			return
		default:
		}
		if err := t.Run(); err != nil && e.OnTaskError != nil {
			e.OnTaskError(t.id, err)
		}
	}
}
