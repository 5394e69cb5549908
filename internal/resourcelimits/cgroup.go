// Package resourcelimits optionally caps a revived partner's memory and
// CPU usage with a cgroup v2 controller. It is entirely best-effort: a
// partner that can't be capped still gets supervised, it just isn't
// capped. Adapted from the teacher's generic process-supervisor cgroup
// plumbing, narrowed to the one thing this system needs it for — shaping
// the process the core just revived, not arbitrary service fleets.
package resourcelimits

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const cgroupRoot = "/sys/fs/cgroup"

// Limits describes the cap to apply. A zero field means "no limit on that
// axis".
type Limits struct {
	MemoryBytes int64
	CPUPercent  int
}

// Empty reports whether both axes are unset, so callers can skip cgroup
// setup entirely for the common case of no configured limits.
func (l Limits) Empty() bool {
	return l.MemoryBytes <= 0 && l.CPUPercent <= 0
}

// Apply moves pid into a dedicated "watchdog-partner" leaf cgroup under
// whatever writable cgroup base this process can find, and sets the
// requested caps on it. Errors are always non-fatal to the caller: the
// supervisor core logs a WARN and moves on.
func Apply(pid int, limits Limits) error {
	if limits.Empty() {
		return nil
	}

	base, err := writableBase()
	if err != nil {
		return fmt.Errorf("resourcelimits: %w", err)
	}

	path := filepath.Join(base, "watchdog-partner")
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("resourcelimits: create cgroup: %w", err)
	}

	if limits.MemoryBytes > 0 {
		if err := writeFile(filepath.Join(path, "memory.max"), strconv.FormatInt(limits.MemoryBytes, 10)); err != nil {
			return fmt.Errorf("resourcelimits: set memory.max: %w", err)
		}
	}
	if limits.CPUPercent > 0 {
		const period = 100000
		quota := (limits.CPUPercent * period) / 100
		value := fmt.Sprintf("%d %d", quota, period)
		if err := writeFile(filepath.Join(path, "cpu.max"), value); err != nil {
			return fmt.Errorf("resourcelimits: set cpu.max: %w", err)
		}
	}

	if err := writeFile(filepath.Join(path, "cgroup.procs"), strconv.Itoa(pid)); err != nil {
		return fmt.Errorf("resourcelimits: add pid to cgroup: %w", err)
	}
	return nil
}

// writableBase finds a cgroup v2 directory this process can create
// children under: either its own cgroup (the common case under systemd
// user/delegated scopes) or the root, for processes running as root
// outside systemd.
func writableBase() (string, error) {
	self, err := selfCgroup()
	if err == nil && self != "" {
		parent := filepath.Join(cgroupRoot, self)
		if err := enableControllers(parent); err == nil {
			return parent, nil
		}
	}

	if err := enableControllers(cgroupRoot); err == nil {
		return cgroupRoot, nil
	}

	return "", fmt.Errorf("no writable cgroup base found")
}

func selfCgroup() (string, error) {
	data, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(data))
	_, rest, ok := strings.Cut(line, "::")
	if !ok {
		return "", fmt.Errorf("unexpected cgroup format: %s", line)
	}
	return rest, nil
}

func enableControllers(parent string) error {
	control := filepath.Join(parent, "cgroup.subtree_control")
	return writeFile(control, "+cpu +memory")
}

func writeFile(path, value string) error {
	return os.WriteFile(path, []byte(value), 0o644)
}
