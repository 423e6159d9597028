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

// Pomodoro phases.
const (
	PhaseWork  = "work"
	PhaseBreak = "break"
)

// longBreakEvery is the cycle stride at which the long break replaces
// the short one.
const longBreakEvery = 4

// PomodoroConfig wires a pomodoro run.
type PomodoroConfig struct {
	Observer       observe.WindowObserver
	Oracle         oracle.Oracle
	Guard          guard.Guard
	Sink           Sink
	WorkMinutes    int
	BreakMinutes   int
	LongBreakMin   int
	Interval       time.Duration
	ExtraWhitelist []string
}

// Pomodoro cycles the focus machine through work and break phases.
// Counters reset at each phase boundary; during breaks the context lock
// is not evaluated and time simply counts down. One FocusSession row is
// written at final stop covering the whole run; phase boundaries
// persist nothing.
type Pomodoro struct {
	cfg     PomodoroConfig
	machine *Machine
	task    *schedule.Task
	now     func() time.Time

	mu            sync.Mutex
	phase         string
	cycle         int
	breakElapsed  int64
	breakTarget   int64
	totalFocus    int64
	totalDistract int64
	totalInterr   int

	startTime time.Time
	stopOnce  sync.Once
}

// NewPomodoro returns an unstarted pomodoro run.
func NewPomodoro(cfg PomodoroConfig) *Pomodoro {
	if cfg.WorkMinutes <= 0 {
		cfg.WorkMinutes = 25
	}
	if cfg.BreakMinutes <= 0 {
		cfg.BreakMinutes = 5
	}
	if cfg.LongBreakMin <= 0 {
		cfg.LongBreakMin = 15
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}

	p := &Pomodoro{
		cfg:     cfg,
		machine: NewMachine("pomodoro", cfg.Oracle, cfg.ExtraWhitelist),
		now:     time.Now,
		phase:   PhaseWork,
		cycle:   1,
	}
	p.task = schedule.New("pomodoro", cfg.Interval, p.tick)
	return p
}

// Start acquires the exclusive guard and begins the first work phase.
func (p *Pomodoro) Start(ctx context.Context) error {
	if err := p.cfg.Guard.Acquire(); err != nil {
		return fmt.Errorf("starting pomodoro: %w", err)
	}
	p.startTime = p.now()
	p.task.Start(ctx)
	return nil
}

// Stop halts the run, releases the guard, and persists one
// FocusSession row totaled across all completed work phases.
func (p *Pomodoro) Stop() {
	p.stopOnce.Do(func() {
		p.task.Stop()

		if err := p.cfg.Guard.Release(); err != nil {
			log.Printf("pomodoro: releasing guard: %v", err)
		}

		p.mu.Lock()
		p.rollUpLocked()
		focusSecs := p.totalFocus
		distractionSecs := p.totalDistract
		interruptions := p.totalInterr
		p.mu.Unlock()

		rec := model.FocusSession{
			StartTime:       p.startTime,
			EndTime:         p.now(),
			TargetMinutes:   p.cfg.WorkMinutes,
			FocusSeconds:    focusSecs,
			DistractionSecs: distractionSecs,
			Interruptions:   interruptions,
			Score:           Score(focusSecs, distractionSecs),
			Goal:            "pomodoro",
		}
		if err := p.cfg.Sink.AppendFocusSession(rec); err != nil {
			log.Printf("pomodoro: persisting session: %v", err)
		}
	})
}

func (p *Pomodoro) tick(ctx context.Context) {
	p.mu.Lock()
	phase := p.phase
	p.mu.Unlock()

	if phase == PhaseBreak {
		p.tickBreak()
		return
	}
	p.tickWork(ctx)
}

func (p *Pomodoro) tickWork(ctx context.Context) {
	win, err := p.cfg.Observer.Foreground(ctx)
	if err != nil {
		if !errors.Is(err, observe.ErrNoWindow) {
			log.Printf("pomodoro: window query failed: %v", err)
		}
		return
	}

	p.machine.Observe(ctx, win.App, win.Title, p.stepSecs())

	focusSecs, _, _ := p.machine.Counters()
	if focusSecs >= int64(p.cfg.WorkMinutes)*60 {
		p.mu.Lock()
		p.rollUpLocked()
		p.machine.ResetCounters()
		p.phase = PhaseBreak
		p.breakElapsed = 0
		p.breakTarget = int64(p.breakMinutes()) * 60
		p.mu.Unlock()
	}
}

func (p *Pomodoro) tickBreak() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.breakElapsed += p.stepSecs()
	if p.breakElapsed >= p.breakTarget {
		p.phase = PhaseWork
		p.cycle++
	}
}

// rollUpLocked folds the machine's phase counters into the run totals.
func (p *Pomodoro) rollUpLocked() {
	focusSecs, distractionSecs, interruptions := p.machine.Counters()
	p.totalFocus += focusSecs
	p.totalDistract += distractionSecs
	p.totalInterr += interruptions
}

// breakMinutes picks the short or long break for the current cycle.
func (p *Pomodoro) breakMinutes() int {
	if p.cycle%longBreakEvery == 0 {
		return p.cfg.LongBreakMin
	}
	return p.cfg.BreakMinutes
}

func (p *Pomodoro) stepSecs() int64 {
	secs := int64(p.cfg.Interval / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Snapshot returns the live run state including phase and cycle.
func (p *Pomodoro) Snapshot() model.FocusSnapshot {
	snap := p.machine.Snapshot()

	p.mu.Lock()
	defer p.mu.Unlock()

	snap.Goal = "pomodoro"
	snap.Phase = p.phase
	snap.Cycle = p.cycle
	if p.phase == PhaseBreak {
		snap.TargetMinutes = p.breakMinutes()
		snap.FocusSeconds = p.breakElapsed // break countdown, not focus
	} else {
		snap.TargetMinutes = p.cfg.WorkMinutes
	}
	return snap
}
