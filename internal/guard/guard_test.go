package guard

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestAcquireConflict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.lock")

	g1 := NewFileGuard(path)
	if err := g1.Acquire(); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	g2 := NewFileGuard(path)
	err := g2.Acquire()
	if !errors.Is(err, ErrHeld) {
		t.Fatalf("second Acquire err = %v, want ErrHeld", err)
	}
}

func TestAcquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.lock")

	g1 := NewFileGuard(path)
	if err := g1.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := g1.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	g2 := NewFileGuard(path)
	if err := g2.Acquire(); err != nil {
		t.Fatalf("Acquire after Release: %v", err)
	}
}

func TestAcquireReclaimsStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.lock")

	g1 := NewFileGuard(path)
	g1.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	if err := g1.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	g2 := NewFileGuard(path)
	if err := g2.Acquire(); err != nil {
		t.Fatalf("Acquire over stale lock: %v", err)
	}
}

func TestAcquireFreshLockNotReclaimed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.lock")

	g1 := NewFileGuard(path)
	g1.now = func() time.Time { return time.Now().Add(-30 * time.Minute) }
	if err := g1.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	g2 := NewFileGuard(path)
	if err := g2.Acquire(); !errors.Is(err, ErrHeld) {
		t.Fatalf("Acquire over fresh lock err = %v, want ErrHeld", err)
	}
}

func TestReleaseUnheld(t *testing.T) {
	g := NewFileGuard(filepath.Join(t.TempDir(), "focus.lock"))
	if err := g.Release(); err != nil {
		t.Fatalf("Release of unheld lock: %v", err)
	}
}
