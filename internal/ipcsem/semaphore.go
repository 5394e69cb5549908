// Package ipcsem wraps a single System-V binary semaphore: the rendezvous
// primitive the supervisor core uses to synchronize a parent with the
// child it just spawned (at first Start, and again after every revival).
//
// A parent calls Wait and blocks until the child, once its own handlers
// and tasks are installed, calls Post. The semaphore survives the exec()
// boundary because it is looked up by key, not inherited by file
// descriptor — that's the whole reason this predates pipes/sockets for
// this job.
package ipcsem

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// project is the fixed project byte baked into the key, matching the
// original ftok(argv[0], 'D') call.
const project = byte('D')

const (
	permissions = 0o666
	initialVal  = 0
)

// Semaphore is a binary (single-member) counting semaphore identified by a
// key derived from a filesystem path.
type Semaphore struct {
	id int
}

// Open creates the semaphore if it doesn't exist, or attaches to it if it
// does — exactly the IPC_CREAT behavior of the original semget call.
func Open(path string) (*Semaphore, error) {
	key, err := ftok(path, project)
	if err != nil {
		return nil, fmt.Errorf("ipcsem: derive key from %q: %w", path, err)
	}

	id, err := unix.Semget(key, 1, permissions|unix.IPC_CREAT)
	if err != nil {
		return nil, fmt.Errorf("ipcsem: semget: %w", err)
	}
	return &Semaphore{id: id}, nil
}

// Wait decrements the semaphore, blocking while its value is zero.
func (s *Semaphore) Wait() error {
	return s.op(-1)
}

// Post increments the semaphore, releasing one blocked Wait.
func (s *Semaphore) Post() error {
	return s.op(1)
}

func (s *Semaphore) op(delta int16) error {
	ops := []unix.Sembuf{{SemNum: 0, SemOp: delta, SemFlg: 0}}
	if err := unix.Semop(s.id, ops); err != nil {
		return fmt.Errorf("ipcsem: semop(%d): %w", delta, err)
	}
	return nil
}

// Remove destroys the semaphore. Removing an already-removed semaphore
// returns an error; callers that may race a concurrent remover should
// treat that as a diagnostic, not fatal, condition — see
// Supervisor.stop.
func (s *Semaphore) Remove() error {
	_, _, errno := unix.Syscall6(unix.SYS_SEMCTL, uintptr(s.id), 0, unix.IPC_RMID, 0, 0, 0)
	if errno != 0 {
		return fmt.Errorf("ipcsem: semctl(IPC_RMID): %w", errno)
	}
	return nil
}

// ftok reproduces glibc's ftok(3): fold the low byte of proj, the low byte
// of the file's device number, and the low 16 bits of its inode into a
// single key. Two processes that stat() the same path get the same key.
func ftok(path string, proj byte) (int, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, fmt.Errorf("stat %q: %w", path, err)
	}

	key := (int32(proj) << 24) |
		((int32(st.Dev) & 0xff) << 16) |
		(int32(st.Ino) & 0xffff)
	return int(key), nil
}

// ResolvablePath turns argv[0] into a path ftok can stat, falling back to
// the resolved executable path if argv[0] isn't found relative to the
// working directory (e.g. it was found via $PATH).
func ResolvablePath(argv0 string) (string, error) {
	if _, err := os.Stat(argv0); err == nil {
		return argv0, nil
	}
	resolved, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("ipcsem: resolve path for %q: %w", argv0, err)
	}
	return resolved, nil
}
