// Package schedule provides a cancellable recurring task with explicit
// start/stop semantics.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Task runs a function at a fixed cadence. Ticks never overlap: the next
// tick fires only after the previous invocation returns. The tick
// function must do its own error handling; a tick that fails is simply
// over.
type Task struct {
	name     string
	interval time.Duration
	tick     func(ctx context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New returns an unstarted task.
func New(name string, interval time.Duration, tick func(ctx context.Context)) *Task {
	return &Task{
		name:     name,
		interval: interval,
		tick:     tick,
	}
}

// Name returns the task name, for logging.
func (t *Task) Name() string { return t.name }

// Start begins ticking. Starting a running task is a no-op.
func (t *Task) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	t.running = true

	go t.loop(ctx)
}

// Stop cancels the task and waits for any in-flight tick to finish.
// Stopping a stopped task is a no-op.
func (t *Task) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	cancel := t.cancel
	done := t.done
	t.running = false
	t.mu.Unlock()

	cancel()
	<-done
}

// Running reports whether the task is started.
func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Task) loop(ctx context.Context) {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}
