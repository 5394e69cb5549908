package mutualwd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_String(t *testing.T) {
	assert.Equal(t, "UserProc", RoleUser.String())
	assert.Equal(t, "WatchDog", RoleWatchdog.String())
}

func TestRole_CounterpartForUser(t *testing.T) {
	got := RoleUser.counterpart("/bin/myapp", "/opt/watchdog.out")
	assert.Equal(t, "/opt/watchdog.out", got)
}

func TestRole_CounterpartForWatchdog(t *testing.T) {
	got := RoleWatchdog.counterpart("/bin/myapp", "/opt/watchdog.out")
	assert.Equal(t, "/bin/myapp", got)
}
