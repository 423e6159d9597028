package daemon

import (
	"testing"
	"time"

	"github.com/theirongolddev/lookout/internal/model"
)

func TestDiffSnapshots(t *testing.T) {
	prev := model.TrackerSnapshot{TotalLogged: 10, TotalSwitches: 25}
	curr := model.TrackerSnapshot{TotalLogged: 13, TotalSwitches: 31}

	delta := diffSnapshots(prev, curr)
	if delta.Logged != 3 {
		t.Fatalf("Logged delta = %d, want 3", delta.Logged)
	}
	if delta.Switches != 6 {
		t.Fatalf("Switches delta = %d, want 6", delta.Switches)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
		Tracker:      func() model.TrackerSnapshot { return model.TrackerSnapshot{} },
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollOnceEmitsDeltaOnlyOnChange(t *testing.T) {
	logged := int64(0)
	s := New(Config{
		Interval: 10 * time.Second,
		Tracker: func() model.TrackerSnapshot {
			return model.TrackerSnapshot{TotalLogged: logged}
		},
	})

	s.pollOnce() // initial snapshot event
	s.pollOnce() // unchanged: no event

	s.mu.RLock()
	n := len(s.events)
	s.mu.RUnlock()
	if n != 1 {
		t.Fatalf("events after unchanged poll = %d, want 1", n)
	}

	logged = 5
	s.pollOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 2 {
		t.Fatalf("events after change = %d, want 2", len(s.events))
	}
	if s.events[1].Type != "activity_delta" || s.events[1].Delta.Logged != 5 {
		t.Fatalf("delta event = %+v", s.events[1])
	}
}
