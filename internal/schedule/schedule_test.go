package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestTaskStartStop(t *testing.T) {
	var ticks atomic.Int64
	task := New("test", 5*time.Millisecond, func(context.Context) {
		ticks.Add(1)
	})

	task.Start(context.Background())
	if !task.Running() {
		t.Fatal("task not running after Start")
	}

	time.Sleep(60 * time.Millisecond)
	task.Stop()
	if task.Running() {
		t.Fatal("task still running after Stop")
	}

	n := ticks.Load()
	if n == 0 {
		t.Fatal("no ticks fired")
	}

	// No further ticks after Stop.
	time.Sleep(30 * time.Millisecond)
	if ticks.Load() != n {
		t.Fatalf("ticks fired after Stop: %d -> %d", n, ticks.Load())
	}
}

func TestTaskTicksDoNotOverlap(t *testing.T) {
	var inFlight atomic.Int32
	var overlapped atomic.Bool

	task := New("slow", time.Millisecond, func(context.Context) {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
	})

	task.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	task.Stop()

	if overlapped.Load() {
		t.Fatal("ticks overlapped")
	}
}

func TestTaskDoubleStartDoubleStop(t *testing.T) {
	task := New("idem", time.Hour, func(context.Context) {})
	task.Start(context.Background())
	task.Start(context.Background())
	task.Stop()
	task.Stop()
}
