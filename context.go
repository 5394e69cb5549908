package mutualwd

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kornnellio/mutualwd/internal/diagnostics"
	"github.com/kornnellio/mutualwd/internal/eventlog"
	"github.com/kornnellio/mutualwd/internal/ipcsem"
	"github.com/kornnellio/mutualwd/internal/resourcelimits"
	"github.com/kornnellio/mutualwd/internal/taskengine"
	"github.com/kornnellio/mutualwd/internal/wdconfig"
	"github.com/kornnellio/mutualwd/internal/wdsignal"
)

// wdOnEnv is the sentinel environment variable: unset on the very first
// Start call, set before spawning the watchdog. Its presence means "this
// process is already under supervision; do not fork again."
const wdOnEnv = "WD_ON"

// Supervisor is the per-process Supervision Context (spec.md §3). At most
// one exists per process; it is created by Start and torn down by Stop.
type Supervisor struct {
	role Role
	argv []string
	cfg  wdconfig.Config

	log *eventlog.Logger
	sem *ipcsem.Semaphore
	sig *wdsignal.Plane
	eng *taskengine.Engine

	shuttingDown atomic.Bool
	stopOnce     sync.Once
	stopErr      error
}

// guard enforces "at most one Supervision Context per process."
var (
	guardMu sync.Mutex
	active  *Supervisor
)

// Handle is the caller-facing reference returned by Start. It exists
// mainly so Stop isn't a free function operating on hidden global state
// from the caller's point of view, even though the context underneath it
// genuinely is a process-wide singleton (signal handlers have no other
// way to reach it).
type Handle struct {
	sup *Supervisor
}

// Stop ends supervision: see Supervisor.stop.
func (h *Handle) Stop(timeout time.Duration) error {
	return h.sup.stop(timeout)
}

// Partner returns the PID this process currently believes is its
// supervision partner.
func (h *Handle) Partner() int {
	return h.sup.sig.Partner()
}

// PartnerStatus reads /proc for whatever PID is currently recorded as the
// partner. Meant for a status subcommand or a diagnostic log dump, not
// for the supervision loop itself: checkLiveness relies solely on the
// signal counters, never on this.
func (h *Handle) PartnerStatus() diagnostics.PartnerStatus {
	return diagnostics.Inspect(h.sup.sig.Partner())
}

// Option customizes a Start call.
type Option func(*startOptions)

type startOptions struct {
	cfg        *wdconfig.Config
	configPath string
}

// WithConfig supplies an explicit Config, bypassing wdconfig.Load
// entirely. Mainly for tests that want tiny intervals.
func WithConfig(cfg wdconfig.Config) Option {
	return func(o *startOptions) { o.cfg = &cfg }
}

// WithConfigFile points Start at a specific watchdog.yaml instead of the
// default search path.
func WithConfigFile(path string) Option {
	return func(o *startOptions) { o.configPath = path }
}

func resolveOptions(opts []Option) (startOptions, error) {
	var o startOptions
	for _, apply := range opts {
		apply(&o)
	}
	if o.cfg == nil {
		cfg, err := wdconfig.Load(o.configPath)
		if err != nil {
			return o, err
		}
		o.cfg = &cfg
	}
	return o, nil
}

func applyResourceLimits(log *eventlog.Logger, pid int, cfg wdconfig.Config) {
	limits := resourcelimits.Limits{
		MemoryBytes: int64(cfg.Resources.MemoryMB) * 1024 * 1024,
		CPUPercent:  cfg.Resources.CPUPercent,
	}
	if limits.Empty() {
		return
	}
	if err := resourcelimits.Apply(pid, limits); err != nil {
		log.Warn(fmt.Sprintf("resource limits not applied: %v", err))
	}
}

// currentExecutablePath returns the running executable's resolved path,
// falling back to argv0 only when that cannot be determined. Unlike
// ipcsem.ResolvablePath it does not prefer argv0 when argv0 exists. Nothing
// in this package calls it.
func currentExecutablePath(argv0 string) string {
	if abs, err := os.Executable(); err == nil {
		return abs
	}
	return argv0
}

// Active returns a Handle to this process's Supervision Context, if one
// exists. Useful for a status subcommand or signal-driven diagnostic dump
// that runs after Start but doesn't hold onto the original Handle.
func Active() (*Handle, error) {
	guardMu.Lock()
	defer guardMu.Unlock()
	if active == nil {
		return nil, ErrNotActive
	}
	return &Handle{sup: active}, nil
}
