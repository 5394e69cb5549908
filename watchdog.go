package mutualwd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kornnellio/mutualwd/internal/eventlog"
	"github.com/kornnellio/mutualwd/internal/fatal"
	"github.com/kornnellio/mutualwd/internal/ipcsem"
	"github.com/kornnellio/mutualwd/internal/taskengine"
	"github.com/kornnellio/mutualwd/internal/wdsignal"
)

// Start begins supervision. role picks which half of the pair this
// process plays; argv must be this process's own argument vector — it is
// what gets re-exec'd, unmodified, on every revival.
//
// For RoleUser, Start installs handlers, forks (or recognizes its own
// post-revival re-entry), and returns immediately: the task engine runs
// on a background goroutine so it never blocks the caller's own code.
//
// For RoleWatchdog, Start does the same setup but then blocks on the
// current goroutine for as long as supervision is active — running the
// task engine *is* the watchdog binary's job. It returns once the engine
// stops, whether that happens because the partner requested a shutdown
// or because Stop was called directly.
//
// Start -> Stop -> Start again within the same process is not supported.
// A Start made while a context is still active returns ErrAlreadyActive;
// Stop clears that context, so a Start made after it is not rejected and
// its behavior is undefined.
func Start(role Role, argv []string, opts ...Option) (*Handle, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("mutualwd: argv must contain at least the program path")
	}

	guardMu.Lock()
	if active != nil {
		guardMu.Unlock()
		return nil, ErrAlreadyActive
	}
	guardMu.Unlock()

	o, err := resolveOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("mutualwd: %w", err)
	}

	s := &Supervisor{
		role: role,
		argv: append([]string(nil), argv...),
		cfg:  *o.cfg,
		log:  eventlog.New(role.String()),
	}

	s.sig = wdsignal.New()
	s.log.Info("Handlers are set")

	semPath, err := ipcsem.ResolvablePath(argv[0])
	if err != nil {
		fatal.Exit(fatal.CodeSemaphore, err.Error(), s.log.Err, func() { s.teardown(0) })
	}
	sem, err := ipcsem.Open(semPath)
	if err != nil {
		fatal.Exit(fatal.CodeSemaphore, err.Error(), s.log.Err, func() { s.teardown(0) })
	}
	s.sem = sem

	s.eng = taskengine.New(200 * time.Millisecond)
	s.eng.OnTaskError = func(_ uuid.UUID, taskErr error) {
		s.log.Warn(taskErr.Error())
	}
	s.registerTasks()
	s.log.Info("Scheduler is set")

	if os.Getenv(wdOnEnv) == "" {
		// First-ever call, made explicitly by the application: become the
		// parent, spawn the watchdog, and wait for it to be ready.
		if err := os.Setenv(wdOnEnv, "1"); err != nil {
			fatal.Exit(fatal.CodeFork, err.Error(), s.log.Err, func() { s.teardown(0) })
		}
		childPath := role.counterpart(argv[0], s.cfg.WatchdogPath)
		proc, err := spawnPartner(childPath, s.argv)
		if err != nil {
			fatal.Exit(fatal.CodeFork, err.Error(), s.log.Err, func() { s.teardown(0) })
		}
		s.sig.SetPartner(proc.Pid)
		applyResourceLimits(s.log, proc.Pid, s.cfg)
		if err := s.sem.Wait(); err != nil {
			fatal.Exit(fatal.CodeSemaphore, err.Error(), s.log.Err, func() { s.teardown(0) })
		}
	} else {
		// This is the child, already past exec(): record the parent as
		// partner and release it from its rendezvous wait.
		s.sig.SetPartner(os.Getppid())
		if err := s.sem.Post(); err != nil {
			fatal.Exit(fatal.CodeSemaphore, err.Error(), s.log.Err, func() { s.teardown(0) })
		}
	}

	guardMu.Lock()
	active = s
	guardMu.Unlock()

	h := &Handle{sup: s}

	if role == RoleWatchdog {
		s.eng.Run()
		return h, nil
	}

	go s.eng.Run()
	return h, nil
}
