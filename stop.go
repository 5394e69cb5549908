package mutualwd

import (
	"errors"
	"syscall"
	"time"

	"github.com/kornnellio/mutualwd/internal/fatal"
	"github.com/kornnellio/mutualwd/internal/wdsignal"
)

// stop is the outer, explicit shutdown flow (spec.md §4.3's Stop): stop
// the task engine, remove the rendezvous semaphore, resend STOP until the
// partner acknowledges or timeout elapses, then wait for the engine
// goroutine to actually exit. It is idempotent: a second call is a
// documented no-op, not an error, because Start -> Stop -> Start within
// one process is unsupported and there is nothing left to tear down.
func (s *Supervisor) stop(timeout time.Duration) error {
	s.stopOnce.Do(func() {
		s.shuttingDown.Store(true)
		if err := s.teardown(timeout); err != nil {
			if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIDRM) {
				// The partner's own Stop already removed the shared
				// semaphore: a double removal is logged as a diagnostic.
				s.log.Warn(err.Error())
				s.stopErr = nil
			} else {
				// Any other removal failure mid-Stop indicates the
				// rendezvous is in an inconsistent state; spec.md §7 treats
				// this as fatal via the same exit path as a setup failure.
				fatal.Exit(fatal.CodeSemaphore, err.Error(), s.log.Err, nil)
			}
		}

		guardMu.Lock()
		if active == s {
			active = nil
		}
		guardMu.Unlock()
	})
	return s.stopErr
}

// teardown performs the actual unwind without exiting the process; it is
// shared between the normal Stop path and the cleanup callback Start's
// fatal-setup paths use (where only a prefix of the context may exist).
func (s *Supervisor) teardown(timeout time.Duration) error {
	if s.log != nil {
		s.log.Info("Stopping " + s.role.String())
	}
	if s.eng != nil {
		s.eng.Stop()
	}

	var semErr error
	if s.sem != nil {
		semErr = s.sem.Remove()
	}

	if s.sig != nil {
		deadline := time.Now().Add(timeout)
		partner := s.sig.Partner()
		// do/while shape, matching watchdog.c's WDStop: at least one STOP
		// goes out even when timeout is zero.
		for {
			_ = wdsignal.SendStop(partner)
			if s.sig.Stops() != 0 || !time.Now().Before(deadline) {
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
	}

	if s.eng != nil {
		s.eng.Wait()
	}
	if s.sig != nil {
		s.sig.Close()
	}

	s.stopErr = semErr
	return semErr
}
