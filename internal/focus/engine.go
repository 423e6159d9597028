package focus

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/theirongolddev/lookout/internal/guard"
	"github.com/theirongolddev/lookout/internal/model"
	"github.com/theirongolddev/lookout/internal/observe"
	"github.com/theirongolddev/lookout/internal/oracle"
	"github.com/theirongolddev/lookout/internal/schedule"
)

// Sink receives the terminal record of a run. *store.Store satisfies it.
type Sink interface {
	AppendFocusSession(model.FocusSession) error
}

// Config wires an Engine's collaborators.
type Config struct {
	Observer       observe.WindowObserver
	Oracle         oracle.Oracle
	Guard          guard.Guard
	Sink           Sink
	Goal           string
	TargetMinutes  int
	Interval       time.Duration
	ExtraWhitelist []string
}

// Engine runs one focus session: it drives the state machine at the
// poll cadence, completes automatically when the focus target is
// reached, and persists exactly one FocusSession at stop.
type Engine struct {
	cfg     Config
	machine *Machine
	task    *schedule.Task
	now     func() time.Time

	startTime time.Time
	done      chan struct{}
	doneOnce  sync.Once
	stopOnce  sync.Once
}

// NewEngine returns an unstarted engine.
func NewEngine(cfg Config) *Engine {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}

	e := &Engine{
		cfg:     cfg,
		machine: NewMachine(cfg.Goal, cfg.Oracle, cfg.ExtraWhitelist),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	e.task = schedule.New("focus", cfg.Interval, e.tick)
	return e
}

// Start acquires the exclusive guard and begins ticking. A held,
// non-stale guard aborts startup.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.cfg.Guard.Acquire(); err != nil {
		return fmt.Errorf("starting focus session: %w", err)
	}
	e.startTime = e.now()
	e.task.Start(ctx)
	return nil
}

// Done is closed when the focus target is reached. The caller still
// calls Stop to finalize the run.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Stop halts the loop, releases the guard, and persists the run's
// single FocusSession row. Safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.task.Stop()

		if err := e.cfg.Guard.Release(); err != nil {
			log.Printf("focus: releasing guard: %v", err)
		}

		focusSecs, distractionSecs, interruptions := e.machine.Counters()
		rec := model.FocusSession{
			StartTime:       e.startTime,
			EndTime:         e.now(),
			TargetMinutes:   e.cfg.TargetMinutes,
			FocusSeconds:    focusSecs,
			DistractionSecs: distractionSecs,
			Interruptions:   interruptions,
			Score:           Score(focusSecs, distractionSecs),
			Goal:            e.cfg.Goal,
		}
		if err := e.cfg.Sink.AppendFocusSession(rec); err != nil {
			log.Printf("focus: persisting session: %v", err)
		}
	})
}

func (e *Engine) tick(ctx context.Context) {
	win, err := e.cfg.Observer.Foreground(ctx)
	if err != nil {
		if !errors.Is(err, observe.ErrNoWindow) {
			log.Printf("focus: window query failed: %v", err)
		}
		return
	}

	e.machine.Observe(ctx, win.App, win.Title, e.stepSecs())

	if e.cfg.TargetMinutes > 0 {
		focusSecs, _, _ := e.machine.Counters()
		if focusSecs >= int64(e.cfg.TargetMinutes)*60 {
			e.doneOnce.Do(func() { close(e.done) })
		}
	}
}

func (e *Engine) stepSecs() int64 {
	secs := int64(e.cfg.Interval / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Snapshot returns the live run state for rendering.
func (e *Engine) Snapshot() model.FocusSnapshot {
	snap := e.machine.Snapshot()
	snap.TargetMinutes = e.cfg.TargetMinutes
	return snap
}
