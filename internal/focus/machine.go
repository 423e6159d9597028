// Package focus implements the context-lock state machine behind focus
// and pomodoro runs.
package focus

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/theirongolddev/lookout/internal/category"
	"github.com/theirongolddev/lookout/internal/model"
	"github.com/theirongolddev/lookout/internal/oracle"
)

// verdictCacheMax bounds the relevance cache. On overflow the cache is
// wiped wholesale; titles recur, so precision is not worth an LRU.
const verdictCacheMax = 50

// Machine is the per-tick context-lock state machine. It owns the lock
// state and both timers for one run; the surrounding engine owns the
// schedule, the guard, and persistence.
type Machine struct {
	goal   string
	oracle oracle.Oracle
	wl     whitelist

	mu              sync.Mutex
	status          model.FocusStatus
	lockedApp       string
	lockedTitle     string
	focusSecs       int64
	distractionSecs int64
	interruptions   int
	prevTitle       string
	hasPrev         bool
	verdicts        map[string]bool
	pending         map[string]struct{}
}

// NewMachine returns a machine in WAITING_FOR_CONTEXT.
func NewMachine(goal string, judge oracle.Oracle, extraWhitelist []string) *Machine {
	return &Machine{
		goal:     goal,
		oracle:   judge,
		wl:       newWhitelist(extraWhitelist),
		status:   model.FocusWaiting,
		verdicts: make(map[string]bool),
		pending:  make(map[string]struct{}),
	}
}

// Observe processes one tick's window, advancing timers by stepSecs.
// Ticks with no window must simply not call Observe.
func (m *Machine) Observe(ctx context.Context, app, title string, stepSecs int64) model.FocusStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := m.classifyLocked(ctx, app, title)
	m.status = status

	switch status {
	case model.FocusFocused:
		m.focusSecs += stepSecs
	case model.FocusDistracted:
		m.distractionSecs += stepSecs
		// Count distraction events, not seconds: a new title while
		// distracted is one interruption no matter how long it lingers.
		if !m.hasPrev || title != m.prevTitle {
			m.interruptions++
		}
	}

	m.prevTitle = title
	m.hasPrev = true
	return status
}

func (m *Machine) classifyLocked(ctx context.Context, app, title string) model.FocusStatus {
	if m.wl.contains(app) {
		return model.FocusNeutral
	}

	if m.lockedApp == "" {
		m.lockedApp = app
		m.lockedTitle = title
		return model.FocusFocused
	}

	if !strings.EqualFold(m.lockedApp, app) {
		return model.FocusDistracted
	}

	// Same app. Inside a browser each title is a destination judged
	// against the goal: a changed title with no cached verdict reports
	// focused optimistically while the oracle fills the cache for
	// subsequent ticks carrying that exact title.
	if category.IsBrowser(app) {
		verdict, cached := m.verdicts[title]
		if cached {
			if !verdict {
				return model.FocusDistracted
			}
			return model.FocusFocused
		}
		if m.hasPrev && title != m.prevTitle {
			m.queryLocked(ctx, title)
		}
		return model.FocusFocused
	}

	return model.FocusFocused
}

// queryLocked fires a non-blocking relevance query that populates the
// cache for future ticks carrying this exact title.
func (m *Machine) queryLocked(ctx context.Context, title string) {
	if _, inFlight := m.pending[title]; inFlight {
		return
	}
	m.pending[title] = struct{}{}

	go func() {
		verdict, err := m.oracle.Relevant(ctx, m.goal, title)
		if err != nil {
			verdict = true // oracle down: assume relevant
		}
		m.storeVerdict(title, verdict)
	}()
}

func (m *Machine) storeVerdict(title string, verdict bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.verdicts) >= verdictCacheMax {
		m.verdicts = make(map[string]bool)
	}
	m.verdicts[title] = verdict
	delete(m.pending, title)
}

// ResetCounters zeroes both timers and the interruption count. The lock
// survives; pomodoro phase boundaries reset the clock, not the context.
func (m *Machine) ResetCounters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focusSecs = 0
	m.distractionSecs = 0
	m.interruptions = 0
}

// Counters returns the current focus seconds, distraction seconds, and
// interruption count.
func (m *Machine) Counters() (focusSecs, distractionSecs int64, interruptions int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focusSecs, m.distractionSecs, m.interruptions
}

// Score is the focus ratio as a percentage; 100 when no time has accrued.
func Score(focusSecs, distractionSecs int64) float64 {
	total := focusSecs + distractionSecs
	if total == 0 {
		return 100
	}
	return float64(focusSecs) / float64(total) * 100
}

// Snapshot returns the machine's live state.
func (m *Machine) Snapshot() model.FocusSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return model.FocusSnapshot{
		At:              time.Now(),
		Status:          m.status,
		Goal:            m.goal,
		LockedApp:       m.lockedApp,
		LockedTitle:     m.lockedTitle,
		FocusSeconds:    m.focusSecs,
		DistractionSecs: m.distractionSecs,
		Interruptions:   m.interruptions,
		Score:           Score(m.focusSecs, m.distractionSecs),
	}
}
