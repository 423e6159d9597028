// Package tracker converts the foreground-window polling stream into
// durable session records.
package tracker

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/theirongolddev/lookout/internal/category"
	"github.com/theirongolddev/lookout/internal/model"
	"github.com/theirongolddev/lookout/internal/observe"
	"github.com/theirongolddev/lookout/internal/schedule"
)

// refreshProbability is the per-tick chance of refreshing the open
// session's resource fields without closing it.
const refreshProbability = 0.10

// SessionSink receives closed sessions. *store.Store satisfies it.
type SessionSink interface {
	AppendSession(model.Session) error
}

// Config wires a Tracker's collaborators and tuning.
type Config struct {
	Observer    observe.WindowObserver
	Procs       observe.ProcessInfoProvider
	Categorizer *category.Categorizer
	Sink        SessionSink
	Interval    time.Duration
	MinDuration time.Duration
}

// Tracker owns the single open session and the poll loop. The open
// session is instance state, never a package global; the presentation
// layer reads it through Snapshot.
type Tracker struct {
	cfg  Config
	task *schedule.Task

	now  func() time.Time
	rand func() float64

	mu            sync.Mutex
	current       *model.Session
	totalLogged   int64
	totalSwitches int64
}

// New returns an unstarted tracker.
func New(cfg Config) *Tracker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.MinDuration < 0 {
		cfg.MinDuration = 0
	}

	t := &Tracker{
		cfg:  cfg,
		now:  time.Now,
		rand: rand.Float64,
	}
	t.task = schedule.New("tracker", cfg.Interval, t.tick)
	return t
}

// Start begins polling.
func (t *Tracker) Start(ctx context.Context) {
	t.task.Start(ctx)
}

// Stop halts polling and flushes any open session.
func (t *Tracker) Stop() {
	t.task.Stop()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.flushLocked(t.now())
}

// tick runs one poll. Any failure is logged and skipped; no tick may
// corrupt state for the next one.
func (t *Tracker) tick(ctx context.Context) {
	win, err := t.cfg.Observer.Foreground(ctx)
	if err != nil {
		// No window (locked screen, empty desktop) is a defined no-op:
		// the open session keeps accumulating until the next differing
		// observation.
		if !errors.Is(err, observe.ErrNoWindow) {
			log.Printf("tracker: window query failed: %v", err)
		}
		return
	}

	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.current == nil:
		t.openLocked(ctx, win, now)
	case t.current.App == win.App && t.current.Title == win.Title:
		if t.rand() < refreshProbability {
			t.refreshLocked(ctx)
		}
	default:
		t.flushLocked(now)
		t.openLocked(ctx, win, now)
		t.totalSwitches++
	}
}

func (t *Tracker) openLocked(ctx context.Context, win observe.Window, now time.Time) {
	sess := &model.Session{
		App:       win.App,
		Title:     win.Title,
		StartTime: now,
		Category:  t.cfg.Categorizer.Categorize(win.App, win.Title),
		PID:       win.PID,
	}
	t.current = sess
	t.refreshLocked(ctx)
}

// refreshLocked updates the open session's resource fields, best effort.
func (t *Tracker) refreshLocked(ctx context.Context) {
	if t.cfg.Procs == nil || t.current == nil || t.current.PID == 0 {
		return
	}
	r, err := t.cfg.Procs.Resource(ctx, t.current.PID)
	if err != nil {
		return
	}
	t.current.MemoryBytes = r.MemoryBytes
	t.current.CPUPercent = r.CPUPercent
}

// flushLocked closes the open session and persists it if it lasted at
// least MinDuration. Shorter runs are alt-tab noise and are dropped.
func (t *Tracker) flushLocked(now time.Time) {
	if t.current == nil {
		return
	}

	sess := *t.current
	t.current = nil

	sess.EndTime = now
	dur := now.Sub(sess.StartTime)
	if dur < t.cfg.MinDuration {
		return
	}
	sess.DurationSec = int64(dur.Seconds())

	if err := t.cfg.Sink.AppendSession(sess); err != nil {
		log.Printf("tracker: persisting session for %s: %v", sess.App, err)
		return
	}
	t.totalLogged++
}

// Snapshot returns the live tracker state for the CLI/TUI/status API.
func (t *Tracker) Snapshot() model.TrackerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := model.TrackerSnapshot{
		At:            t.now(),
		TotalLogged:   t.totalLogged,
		TotalSwitches: t.totalSwitches,
	}
	if t.current != nil {
		snap.App = t.current.App
		snap.Title = t.current.Title
		snap.Category = t.current.Category
		snap.OpenSince = t.current.StartTime
	}
	return snap
}
