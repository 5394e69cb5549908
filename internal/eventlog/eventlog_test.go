package eventlog

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineShape = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] UserProc \| (INFO|WARN|ERR ) \| .+\n$`)

func TestLogger_InfoWritesHistoricalLineShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger.txt")
	l := New("UserProc").WithPath(path)

	l.Info("SIGUSR1 sent")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, lineShape, string(data))
	assert.Contains(t, string(data), "INFO")
	assert.Contains(t, string(data), "SIGUSR1 sent")
}

func TestLogger_WarnAndErrUseDistinctTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger.txt")
	l := New("WatchDog").WithPath(path)

	l.Warn("Unexpected amount of signals received")
	l.Err("Reviving other process")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "| WARN | Unexpected amount of signals received")
	assert.Contains(t, string(data), "| ERR  | Reviving other process")
}

func TestLogger_AppendsAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger.txt")
	l := New("UserProc").WithPath(path)

	l.Info("first")
	l.Info("second")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := regexp.MustCompile("\n").Split(string(data), -1)
	assert.Contains(t, lines[0], "first")
	assert.Contains(t, lines[1], "second")
}

func TestLogger_OpenFailureIsNonFatal(t *testing.T) {
	l := New("UserProc").WithPath(filepath.Join(t.TempDir(), "nonexistent-dir", "logger.txt"))
	assert.NotPanics(t, func() { l.Info("dropped silently") })
}
