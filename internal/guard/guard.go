// Package guard enforces single-instance exclusion for focus runs.
package guard

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StaleAfter is how old a held lock must be before a new run may reclaim
// it. A crashed run leaves its lock behind; an hour is well past any
// plausible focus session startup race.
const StaleAfter = time.Hour

// ErrHeld indicates another focus or pomodoro run is active.
var ErrHeld = errors.New("guard: another focus session is already running")

// Guard is an exclusive-session guard. Acquire fails while another
// holder's claim is fresh; Release ends the claim.
type Guard interface {
	Acquire() error
	Release() error
}

// claim is the lock file payload.
type claim struct {
	PID        int       `json:"pid"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// FileGuard implements Guard with an exclusive lock file holding the
// owner's pid, surviving process restarts.
type FileGuard struct {
	path string
	now  func() time.Time
}

// NewFileGuard returns a guard backed by the given lock file path.
func NewFileGuard(path string) *FileGuard {
	return &FileGuard{path: path, now: time.Now}
}

// Acquire claims the lock, reclaiming a stale one. Returns an error
// wrapping ErrHeld if another fresh claim exists.
func (g *FileGuard) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(g.path), 0o750); err != nil {
		return fmt.Errorf("guard: creating lock dir: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(g.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return g.writeClaim(f)
		}
		if !os.IsExist(err) {
			return fmt.Errorf("guard: creating lock file: %w", err)
		}

		existing, readErr := g.readClaim()
		if readErr == nil && g.now().Sub(existing.AcquiredAt) < StaleAfter {
			return fmt.Errorf("%w (pid %d, since %s)", ErrHeld,
				existing.PID, existing.AcquiredAt.Local().Format(time.Kitchen))
		}

		// Stale or unreadable: reclaim and retry the exclusive create.
		if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("guard: reclaiming stale lock: %w", err)
		}
	}

	return fmt.Errorf("%w (could not reclaim lock)", ErrHeld)
}

// Release removes the lock file. Releasing an unheld lock is a no-op.
func (g *FileGuard) Release() error {
	if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("guard: releasing lock: %w", err)
	}
	return nil
}

func (g *FileGuard) writeClaim(f *os.File) error {
	defer func() { _ = f.Close() }()

	data, err := json.Marshal(claim{PID: os.Getpid(), AcquiredAt: g.now()})
	if err != nil {
		return fmt.Errorf("guard: encoding claim: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("guard: writing claim: %w", err)
	}
	return nil
}

func (g *FileGuard) readClaim() (claim, error) {
	var c claim
	data, err := os.ReadFile(g.path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	return c, nil
}
