package focus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/lookout/internal/model"
	"github.com/theirongolddev/lookout/internal/observe"
)

type fixedObserver struct {
	win observe.Window
	err error
}

func (f *fixedObserver) Foreground(context.Context) (observe.Window, error) {
	return f.win, f.err
}

type fakeGuard struct {
	acquireErr error
	acquired   int
	released   int
}

func (g *fakeGuard) Acquire() error { g.acquired++; return g.acquireErr }
func (g *fakeGuard) Release() error { g.released++; return nil }

type focusSink struct {
	records []model.FocusSession
}

func (s *focusSink) AppendFocusSession(fs model.FocusSession) error {
	s.records = append(s.records, fs)
	return nil
}

func TestEngineStartGuardConflict(t *testing.T) {
	g := &fakeGuard{acquireErr: errors.New("guard: another focus session is already running")}
	e := NewEngine(Config{
		Observer: &fixedObserver{win: observe.Window{App: "Code", Title: "x"}},
		Guard:    g,
		Sink:     &focusSink{},
		Goal:     "test",
	})

	if err := e.Start(context.Background()); err == nil {
		t.Fatal("Start succeeded despite held guard")
	}
}

func TestEngineStopPersistsExactlyOnce(t *testing.T) {
	g := &fakeGuard{}
	sink := &focusSink{}
	e := NewEngine(Config{
		Observer:      &fixedObserver{win: observe.Window{App: "Code", Title: "main.go"}},
		Guard:         g,
		Sink:          sink,
		Goal:          "ship it",
		TargetMinutes: 25,
	})

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		e.tick(ctx)
	}

	e.Stop()
	e.Stop() // idempotent

	if g.released != 1 {
		t.Fatalf("guard released %d times, want 1", g.released)
	}
	if len(sink.records) != 1 {
		t.Fatalf("persisted %d records, want exactly 1", len(sink.records))
	}

	rec := sink.records[0]
	if rec.Goal != "ship it" || rec.TargetMinutes != 25 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.FocusSeconds < 5 {
		t.Fatalf("FocusSeconds = %d, want >= 5", rec.FocusSeconds)
	}
	if rec.Score != 100 {
		t.Fatalf("Score = %.1f, want 100 (no distraction)", rec.Score)
	}
}

func TestEngineAutoCompleteAtTarget(t *testing.T) {
	e := NewEngine(Config{
		Observer:      &fixedObserver{win: observe.Window{App: "Code", Title: "main.go"}},
		Guard:         &fakeGuard{},
		Sink:          &focusSink{},
		Goal:          "sprint",
		TargetMinutes: 1,
	})
	e.startTime = time.Now()

	ctx := context.Background()
	for i := 0; i < 60; i++ {
		e.tick(ctx)
	}

	select {
	case <-e.Done():
	default:
		t.Fatal("Done not signaled after reaching target")
	}
}

func TestEngineNoWindowSkipsTick(t *testing.T) {
	obs := &fixedObserver{err: observe.ErrNoWindow}
	e := NewEngine(Config{
		Observer: obs,
		Guard:    &fakeGuard{},
		Sink:     &focusSink{},
		Goal:     "test",
	})
	e.startTime = time.Now()

	e.tick(context.Background())

	snap := e.Snapshot()
	if snap.Status != model.FocusWaiting {
		t.Fatalf("status = %s, want WAITING_FOR_CONTEXT", snap.Status)
	}
	if snap.FocusSeconds != 0 {
		t.Fatalf("FocusSeconds = %d, want 0", snap.FocusSeconds)
	}
}

func TestPomodoroPhaseCycle(t *testing.T) {
	sink := &focusSink{}
	p := NewPomodoro(PomodoroConfig{
		Observer:     &fixedObserver{win: observe.Window{App: "Code", Title: "main.go"}},
		Guard:        &fakeGuard{},
		Sink:         sink,
		WorkMinutes:  1,
		BreakMinutes: 1,
		LongBreakMin: 2,
	})
	p.startTime = time.Now()

	ctx := context.Background()

	// Complete the first work phase.
	for i := 0; i < 60; i++ {
		p.tick(ctx)
	}
	snap := p.Snapshot()
	if snap.Phase != PhaseBreak {
		t.Fatalf("phase = %s, want break after work target", snap.Phase)
	}
	if fs, ds, _ := p.machine.Counters(); fs != 0 || ds != 0 {
		t.Fatalf("machine counters not reset at boundary: %d/%d", fs, ds)
	}
	// No record is persisted at a phase boundary.
	if len(sink.records) != 0 {
		t.Fatalf("persisted %d records at phase boundary, want 0", len(sink.records))
	}

	// Run out the break.
	for i := 0; i < 60; i++ {
		p.tick(ctx)
	}
	snap = p.Snapshot()
	if snap.Phase != PhaseWork {
		t.Fatalf("phase = %s, want work after break", snap.Phase)
	}
	if snap.Cycle != 2 {
		t.Fatalf("cycle = %d, want 2", snap.Cycle)
	}

	// Final stop writes exactly one record with the run totals.
	p.tick(ctx) // one more focused second in cycle 2
	p.Stop()
	if len(sink.records) != 1 {
		t.Fatalf("persisted %d records, want 1", len(sink.records))
	}
	if sink.records[0].FocusSeconds != 61 {
		t.Fatalf("FocusSeconds = %d, want 61 (60 work + 1)", sink.records[0].FocusSeconds)
	}
}

func TestPomodoroLongBreakEveryFourth(t *testing.T) {
	p := NewPomodoro(PomodoroConfig{
		Observer:     &fixedObserver{win: observe.Window{App: "Code", Title: "x"}},
		Guard:        &fakeGuard{},
		Sink:         &focusSink{},
		WorkMinutes:  25,
		BreakMinutes: 5,
		LongBreakMin: 15,
	})

	p.cycle = 3
	if got := p.breakMinutes(); got != 5 {
		t.Errorf("cycle 3 break = %dm, want 5", got)
	}
	p.cycle = 4
	if got := p.breakMinutes(); got != 15 {
		t.Errorf("cycle 4 break = %dm, want 15", got)
	}
	p.cycle = 8
	if got := p.breakMinutes(); got != 15 {
		t.Errorf("cycle 8 break = %dm, want 15", got)
	}
}

func TestPomodoroBreakIgnoresWindows(t *testing.T) {
	obs := &fixedObserver{win: observe.Window{App: "Code", Title: "x"}}
	p := NewPomodoro(PomodoroConfig{
		Observer:     obs,
		Guard:        &fakeGuard{},
		Sink:         &focusSink{},
		WorkMinutes:  1,
		BreakMinutes: 5,
	})
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		p.tick(ctx)
	}

	// During the break, a distracting app must not move any counter.
	obs.win = observe.Window{App: "YouTube", Title: "cats"}
	for i := 0; i < 10; i++ {
		p.tick(ctx)
	}

	if _, ds, ints := p.machine.Counters(); ds != 0 || ints != 0 {
		t.Fatalf("context lock evaluated during break: distraction=%d interruptions=%d", ds, ints)
	}
	if snap := p.Snapshot(); snap.FocusSeconds != 10 {
		t.Fatalf("break countdown = %d, want 10", snap.FocusSeconds)
	}
}
