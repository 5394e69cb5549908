package resourcelimits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimits_EmptyWhenBothAxesUnset(t *testing.T) {
	assert.True(t, Limits{}.Empty())
}

func TestLimits_NotEmptyWithMemoryOnly(t *testing.T) {
	assert.False(t, Limits{MemoryBytes: 1 << 20}.Empty())
}

func TestLimits_NotEmptyWithCPUOnly(t *testing.T) {
	assert.False(t, Limits{CPUPercent: 50}.Empty())
}

func TestApply_NoopOnEmptyLimits(t *testing.T) {
	// Apply must short-circuit before touching any cgroup filesystem when
	// there is nothing to set, so this passes even off Linux/without root.
	assert.NoError(t, Apply(1, Limits{}))
}
