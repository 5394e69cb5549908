package mutualwd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kornnellio/mutualwd/internal/eventlog"
	"github.com/kornnellio/mutualwd/internal/wdconfig"
)

// withNoActiveContext clears the package-level singleton guard around a
// test, so tests that exercise Start/Stop's guard logic don't depend on
// run order.
func withNoActiveContext(t *testing.T) {
	t.Helper()
	guardMu.Lock()
	prev := active
	active = nil
	guardMu.Unlock()

	t.Cleanup(func() {
		guardMu.Lock()
		active = prev
		guardMu.Unlock()
	})
}

func TestActive_ErrorsWhenNoContext(t *testing.T) {
	withNoActiveContext(t)

	_, err := Active()
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestActive_ReturnsHandleToRegisteredContext(t *testing.T) {
	withNoActiveContext(t)

	s := &Supervisor{role: RoleUser, log: eventlog.New("UserProc")}
	guardMu.Lock()
	active = s
	guardMu.Unlock()

	h, err := Active()
	require.NoError(t, err)
	assert.Same(t, s, h.sup)
}

func TestStop_IsIdempotent(t *testing.T) {
	withNoActiveContext(t)

	s := &Supervisor{role: RoleUser, log: eventlog.New("UserProc")}
	guardMu.Lock()
	active = s
	guardMu.Unlock()
	h := &Handle{sup: s}

	err1 := h.Stop(50 * time.Millisecond)
	err2 := h.Stop(50 * time.Millisecond)

	assert.NoError(t, err1)
	assert.NoError(t, err2)

	guardMu.Lock()
	defer guardMu.Unlock()
	assert.Nil(t, active)
}

func TestApplyResourceLimits_NoopWhenUnconfigured(t *testing.T) {
	log := eventlog.New("UserProc").WithPath(t.TempDir() + "/logger.txt")
	assert.NotPanics(t, func() {
		applyResourceLimits(log, 1, wdconfig.Defaults())
	})
}
