// Package diagnostics answers "is the process we think is our partner
// actually still there, and what does it look like" by reading /proc.
// Adapted from the teacher's process-table introspection: where the
// teacher dumped full /proc/[pid] detail for a human operator, this
// trims it to what the supervisor core and its status CLI actually need:
// liveness, identity (name, state, parent PID), and a handful of resource
// numbers worth surfacing when something revives.
package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PartnerStatus is a snapshot of the partner process's /proc entry.
type PartnerStatus struct {
	PID     int
	Alive   bool
	Comm    string
	State   string
	PPID    int
	Threads int
	VmRSSKB int64
}

// Inspect reads /proc/[pid]/status for the given PID. A non-existent
// process is reported as PartnerStatus{PID: pid, Alive: false}, not an
// error — that's the expected shape of "the partner died".
func Inspect(pid int) PartnerStatus {
	status := PartnerStatus{PID: pid}

	procPath := fmt.Sprintf("/proc/%d", pid)
	data, err := os.ReadFile(filepath.Join(procPath, "status"))
	if err != nil {
		return status
	}
	status.Alive = true

	for _, line := range strings.Split(string(data), "\n") {
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "Name":
			status.Comm = val
		case "State":
			status.State = val
		case "PPid":
			status.PPID, _ = strconv.Atoi(val)
		case "Threads":
			status.Threads, _ = strconv.Atoi(val)
		case "VmRSS":
			fields := strings.Fields(val)
			if len(fields) > 0 {
				status.VmRSSKB, _ = strconv.ParseInt(fields[0], 10, 64)
			}
		}
	}
	return status
}

// String renders a one-line human summary, used by the watchdog CLI's
// "status" subcommand.
func (s PartnerStatus) String() string {
	if !s.Alive {
		return fmt.Sprintf("pid %d: not running", s.PID)
	}
	return fmt.Sprintf("pid %d: %s state=%s ppid=%d threads=%d rss=%dKB",
		s.PID, s.Comm, s.State, s.PPID, s.Threads, s.VmRSSKB)
}
