package taskengine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_RunsRegisteredTask(t *testing.T) {
	e := New(10 * time.Millisecond)
	var calls atomic.Int32

	e.Add(func() error {
		calls.Add(1)
		return nil
	}, 10*time.Millisecond)

	go e.Run()
	time.Sleep(100 * time.Millisecond)
	e.Stop()
	e.Wait()

	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestEngine_OnTaskErrorReceivesFailures(t *testing.T) {
	e := New(10 * time.Millisecond)

	var mu sync.Mutex
	var lastErr error
	e.OnTaskError = func(_ uuid.UUID, err error) {
		mu.Lock()
		lastErr = err
		mu.Unlock()
	}

	e.Add(func() error { return assert.AnError }, 10*time.Millisecond)

	go e.Run()
	time.Sleep(50 * time.Millisecond)
	e.Stop()
	e.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Error(t, lastErr)
	assert.Equal(t, assert.AnError, lastErr)
}

func TestEngine_RemoveStopsFurtherRuns(t *testing.T) {
	e := New(10 * time.Millisecond)
	var calls atomic.Int32

	id := e.Add(func() error {
		calls.Add(1)
		return nil
	}, 10*time.Millisecond)
	e.Remove(id)

	go e.Run()
	time.Sleep(50 * time.Millisecond)
	e.Stop()
	e.Wait()

	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, 0, e.Size())
}

func TestEngine_StopIsIdempotent(t *testing.T) {
	e := New(10 * time.Millisecond)
	go e.Run()
	time.Sleep(10 * time.Millisecond)

	assert.NotPanics(t, func() {
		e.Stop()
		e.Stop()
	})
	e.Wait()
}

func TestEngine_WaitReturnsImmediatelyIfNeverRun(t *testing.T) {
	e := New(10 * time.Millisecond)
	e.Stop()

	done := make(chan struct{})
	go func() {
		e.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked forever on an Engine that never ran")
	}
}
