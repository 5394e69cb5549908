package mutualwd

import (
	"fmt"

	"github.com/kornnellio/mutualwd/internal/wdsignal"
)

// registerTasks wires up Task B, Task C, and Task S exactly as spec.md
// §4.4 describes them: a heartbeat sender, a liveness checker, and a stop
// listener, at BeatInterval/CheckInterval respectively.
func (s *Supervisor) registerTasks() {
	s.eng.Add(s.sendBeat, s.cfg.BeatInterval)
	s.eng.Add(s.checkLiveness, s.cfg.CheckInterval)
	s.eng.Add(s.listenForStop, s.cfg.CheckInterval)
}

// sendBeat is Task B: tell the partner we're alive.
func (s *Supervisor) sendBeat() error {
	if err := wdsignal.SendBeat(s.sig.Partner()); err != nil {
		return fmt.Errorf("send beat: %w", err)
	}
	s.log.Info("SIGUSR1 sent")
	return nil
}

// checkLiveness is Task C: evaluate the beats received this window and,
// if the partner looks dead, revive it. The WARN and revival checks are
// independent, matching the original design: a window with zero beats
// logs both "unexpected amount" and "reviving other process".
func (s *Supervisor) checkLiveness() error {
	observed := s.sig.Beats()
	expected := int64(s.cfg.CheckInterval / s.cfg.BeatInterval)

	if observed != expected {
		s.log.Warn("Unexpected amount of signals received")
	}

	if observed < 1 {
		if !s.shuttingDown.Load() {
			s.log.Err("Reviving other process")
			if err := s.revivePartner(); err != nil {
				s.sig.ResetBeats(observed)
				return fmt.Errorf("revive partner: %w", err)
			}
		}
	}

	s.sig.ResetBeats(observed)
	return nil
}

// listenForStop is Task S: if the partner has asked to stop (or echoed
// our own stop request), tell the engine to wind down. The outer Stop
// call, if one is in flight, unwinds once the engine actually exits.
func (s *Supervisor) listenForStop() error {
	if s.sig.Stops() > 0 {
		s.eng.Stop()
	}
	return nil
}

// revivePartner forks a replacement for a presumed-dead partner: the
// child execs the appropriate binary with the original user argv, the
// parent waits on the rendezvous semaphore until the child has its own
// handlers and tasks installed. Gated on shuttingDown by the caller so a
// revival never races Stop's semaphore removal (spec.md §9).
func (s *Supervisor) revivePartner() error {
	childPath := s.role.counterpart(s.argv[0], s.cfg.WatchdogPath)
	proc, err := spawnPartner(childPath, s.argv)
	if err != nil {
		return err
	}
	s.sig.SetPartner(proc.Pid)
	applyResourceLimits(s.log, proc.Pid, s.cfg)
	return s.sem.Wait()
}
