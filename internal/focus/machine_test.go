package focus

import (
	"context"
	"testing"
	"time"

	"github.com/theirongolddev/lookout/internal/model"
)

// fakeOracle returns scripted verdicts keyed by title.
type fakeOracle struct {
	verdicts map[string]bool
	err      error
	calls    int
}

func (f *fakeOracle) Relevant(_ context.Context, _, title string) (bool, error) {
	f.calls++
	if f.err != nil {
		return true, f.err
	}
	v, ok := f.verdicts[title]
	if !ok {
		return true, nil
	}
	return v, nil
}

func waitForVerdict(t *testing.T, m *Machine, title string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		_, ok := m.verdicts[title]
		m.mu.Unlock()
		if ok {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("verdict for %q never cached", title)
}

func TestLockEstablishedOnFirstObservation(t *testing.T) {
	m := NewMachine("write code", &fakeOracle{}, nil)
	ctx := context.Background()

	status := m.Observe(ctx, "Code", "main.go", 1)
	if status != model.FocusFocused {
		t.Fatalf("first observation = %s, want FOCUSED", status)
	}
	snap := m.Snapshot()
	if snap.LockedApp != "Code" {
		t.Fatalf("LockedApp = %q, want Code", snap.LockedApp)
	}
	if snap.FocusSeconds != 1 {
		t.Fatalf("FocusSeconds = %d, want 1", snap.FocusSeconds)
	}
}

func TestWhitelistedAppIsNeutral(t *testing.T) {
	m := NewMachine("write code", &fakeOracle{}, nil)
	ctx := context.Background()

	// Whitelisted process before any lock: no lock established.
	if status := m.Observe(ctx, "Finder", "Desktop", 1); status != model.FocusNeutral {
		t.Fatalf("status = %s, want NEUTRAL", status)
	}
	if m.Snapshot().LockedApp != "" {
		t.Fatal("lock established on whitelisted app")
	}

	// Establish a lock, then 30s of a whitelisted app: neither counter
	// moves and the lock is untouched.
	m.Observe(ctx, "Code", "main.go", 1)
	before := m.Snapshot()
	for i := 0; i < 30; i++ {
		if status := m.Observe(ctx, "gnome-shell", "", 1); status != model.FocusNeutral {
			t.Fatalf("status = %s, want NEUTRAL", status)
		}
	}
	after := m.Snapshot()

	if after.FocusSeconds != before.FocusSeconds || after.DistractionSecs != before.DistractionSecs {
		t.Fatalf("counters moved during NEUTRAL: %+v -> %+v", before, after)
	}
	if after.LockedApp != "Code" {
		t.Fatalf("LockedApp = %q, want Code", after.LockedApp)
	}
}

func TestDifferentAppIsDistracted(t *testing.T) {
	m := NewMachine("write code", &fakeOracle{}, nil)
	ctx := context.Background()

	m.Observe(ctx, "Code", "main.go", 1)
	if status := m.Observe(ctx, "Slack", "#general", 1); status != model.FocusDistracted {
		t.Fatalf("status = %s, want DISTRACTED", status)
	}

	snap := m.Snapshot()
	if snap.DistractionSecs != 1 {
		t.Fatalf("DistractionSecs = %d, want 1", snap.DistractionSecs)
	}
}

func TestLockMatchIsCaseInsensitive(t *testing.T) {
	m := NewMachine("write code", &fakeOracle{}, nil)
	ctx := context.Background()

	m.Observe(ctx, "Code", "main.go", 1)
	if status := m.Observe(ctx, "code", "main.go", 1); status != model.FocusFocused {
		t.Fatalf("status = %s, want FOCUSED for case-insensitive app match", status)
	}
}

func TestInterruptionsCountEventsNotSeconds(t *testing.T) {
	m := NewMachine("write code", &fakeOracle{}, nil)
	ctx := context.Background()

	m.Observe(ctx, "Code", "main.go", 1)

	// Distraction appears: one interruption.
	m.Observe(ctx, "Slack", "#general", 1)
	// Same distracting title lingers: still one interruption.
	m.Observe(ctx, "Slack", "#general", 1)
	m.Observe(ctx, "Slack", "#general", 1)
	// New distracting title: second interruption.
	m.Observe(ctx, "Slack", "#random", 1)

	_, distractionSecs, interruptions := m.Counters()
	if distractionSecs != 4 {
		t.Errorf("DistractionSecs = %d, want 4", distractionSecs)
	}
	if interruptions != 2 {
		t.Errorf("Interruptions = %d, want 2", interruptions)
	}
}

func TestBrowserTitleChangeOptimisticThenCached(t *testing.T) {
	judge := &fakeOracle{verdicts: map[string]bool{"cat videos - YouTube": false}}
	m := NewMachine("research Go generics", judge, nil)
	ctx := context.Background()

	// Lock to the browser on a relevant page.
	m.Observe(ctx, "firefox", "Go generics - docs", 1)
	m.Observe(ctx, "firefox", "Go generics - docs", 1)

	// Transition tick to an uncached title: optimistic FOCUSED, oracle fired.
	status := m.Observe(ctx, "firefox", "cat videos - YouTube", 1)
	if status != model.FocusFocused {
		t.Fatalf("transition tick = %s, want FOCUSED (optimistic)", status)
	}

	waitForVerdict(t, m, "cat videos - YouTube")
	if judge.calls != 1 {
		t.Fatalf("oracle calls = %d, want 1", judge.calls)
	}

	// Same title again with the verdict now cached: DISTRACTED.
	status = m.Observe(ctx, "firefox", "cat videos - YouTube", 1)
	if status != model.FocusDistracted {
		t.Fatalf("cached tick = %s, want DISTRACTED", status)
	}
}

func TestBrowserOracleFailureAssumesRelevant(t *testing.T) {
	judge := &fakeOracle{err: context.DeadlineExceeded}
	m := NewMachine("anything", judge, nil)
	ctx := context.Background()

	m.Observe(ctx, "chrome", "start page", 1)
	m.Observe(ctx, "chrome", "somewhere new", 1)
	waitForVerdict(t, m, "somewhere new")

	if status := m.Observe(ctx, "chrome", "somewhere new", 1); status != model.FocusFocused {
		t.Fatalf("status = %s, want FOCUSED when oracle unavailable", status)
	}
}

func TestVerdictCacheWipesOnOverflow(t *testing.T) {
	m := NewMachine("goal", &fakeOracle{}, nil)

	for i := 0; i < verdictCacheMax; i++ {
		m.storeVerdict(string(rune('a'+i%26))+string(rune('0'+i/26)), true)
	}
	m.mu.Lock()
	n := len(m.verdicts)
	m.mu.Unlock()
	if n != verdictCacheMax {
		t.Fatalf("cache size = %d, want %d", n, verdictCacheMax)
	}

	m.storeVerdict("one more", true)
	m.mu.Lock()
	n = len(m.verdicts)
	m.mu.Unlock()
	if n != 1 {
		t.Fatalf("cache size after overflow = %d, want 1 (wiped wholesale)", n)
	}
}

func TestScore(t *testing.T) {
	if s := Score(0, 0); s != 100 {
		t.Errorf("Score(0,0) = %.1f, want 100", s)
	}
	if s := Score(90, 10); s != 90 {
		t.Errorf("Score(90,10) = %.1f, want 90", s)
	}
	// Non-increasing in distraction seconds with focus fixed.
	prev := Score(60, 0)
	for d := int64(1); d <= 10; d++ {
		cur := Score(60, d)
		if cur > prev {
			t.Fatalf("score increased with distraction: %.2f -> %.2f", prev, cur)
		}
		prev = cur
	}
}

func TestResetCountersKeepsLock(t *testing.T) {
	m := NewMachine("goal", &fakeOracle{}, nil)
	ctx := context.Background()

	m.Observe(ctx, "Code", "main.go", 1)
	m.Observe(ctx, "Slack", "#general", 1)
	m.ResetCounters()

	focusSecs, distractionSecs, interruptions := m.Counters()
	if focusSecs != 0 || distractionSecs != 0 || interruptions != 0 {
		t.Fatal("counters not reset")
	}
	if m.Snapshot().LockedApp != "Code" {
		t.Fatal("lock lost on counter reset")
	}
}
