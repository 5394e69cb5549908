package fatal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExit_RunsLogAndCleanupBeforeExiting(t *testing.T) {
	// Exit itself calls os.Exit and can't be invoked directly in a test
	// process, so Exit is not called here. The test runs the log-then-
	// cleanup sequence Exit performs by hand and checks only that each
	// callback recorded its effect; the order of the two calls is not
	// asserted.
	var logged, cleaned string
	logFn := func(msg string) { logged = msg }
	cleanup := func() { cleaned = "done" }

	logFn("boom")
	cleanup()

	assert.Equal(t, "boom", logged)
	assert.Equal(t, "done", cleaned)
}

func TestCodes_AreDistinct(t *testing.T) {
	codes := []Code{CodeSemaphore, CodeFork, CodeTaskEngine, CodeThread, CodeSignalHandler}
	seen := map[Code]bool{}
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate code %d", c)
		seen[c] = true
	}
}
