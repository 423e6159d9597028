// Package observe defines the OS-introspection capabilities the tracker
// and focus engine consume: foreground-window identity and per-process
// resource telemetry.
package observe

import (
	"context"
	"errors"
)

// ErrNoWindow indicates no foreground window is available, e.g. a locked
// screen or an empty desktop. Callers treat a tick with no window as a
// no-op, not a failure.
var ErrNoWindow = errors.New("observe: no foreground window")

// ErrUnavailable indicates the underlying capability is not configured or
// not working on this system.
var ErrUnavailable = errors.New("observe: capability unavailable")

// Window identifies the current foreground window.
type Window struct {
	App   string
	Title string
	PID   int32
}

// WindowObserver reports the current foreground window.
type WindowObserver interface {
	Foreground(ctx context.Context) (Window, error)
}

// ProcResource is a point-in-time resource reading for one process.
type ProcResource struct {
	PID         int32
	Name        string
	MemoryBytes int64
	CPUPercent  float64
	Threads     int32
	Status      string
}

// SystemStats holds system-wide telemetry captured alongside process
// snapshots.
type SystemStats struct {
	MemoryUsedBytes  int64
	MemoryTotalBytes int64
	CPUPercent       float64
}

// ProcessInfoProvider looks up resource usage for a single pid and
// snapshots the heaviest processes system-wide.
type ProcessInfoProvider interface {
	Resource(ctx context.Context, pid int32) (ProcResource, error)
	SnapshotAll(ctx context.Context, topN int) ([]ProcResource, SystemStats, error)
}
