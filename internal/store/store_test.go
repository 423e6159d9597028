package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/lookout/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lookout.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mkSession(t *testing.T, app string, start string, durSecs int64, cat model.Category) model.Session {
	t.Helper()
	st, err := time.Parse(time.RFC3339, start)
	if err != nil {
		t.Fatalf("parse time %q: %v", start, err)
	}
	return model.Session{
		App:         app,
		Title:       app + " window",
		StartTime:   st,
		EndTime:     st.Add(time.Duration(durSecs) * time.Second),
		DurationSec: durSecs,
		Category:    cat,
		MemoryBytes: 100 << 20,
		CPUPercent:  5,
		PID:         1234,
	}
}

func TestAppendAndLoadSessions(t *testing.T) {
	s := openTestStore(t)

	sess := mkSession(t, "Code", "2026-08-25T10:00:00Z", 300, model.CategoryDevelopment)
	if err := s.AppendSession(sess); err != nil {
		t.Fatalf("AppendSession: %v", err)
	}

	got, err := s.SessionsOn(sess.StartTime)
	if err != nil {
		t.Fatalf("SessionsOn: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].App != "Code" || got[0].DurationSec != 300 || got[0].Category != model.CategoryDevelopment {
		t.Fatalf("roundtrip mismatch: %+v", got[0])
	}
}

func TestRecomputeDailyIdempotent(t *testing.T) {
	s := openTestStore(t)
	date, _ := time.Parse(time.RFC3339, "2026-08-25T00:00:00Z")

	seed := []model.Session{
		mkSession(t, "Code", "2026-08-25T09:00:00Z", 3600, model.CategoryDevelopment),
		mkSession(t, "Chrome", "2026-08-25T10:00:00Z", 600, model.CategoryBrowsing),
		mkSession(t, "YouTube", "2026-08-25T11:00:00Z", 900, model.CategoryDistraction),
	}
	for _, sess := range seed {
		if err := s.AppendSession(sess); err != nil {
			t.Fatalf("AppendSession: %v", err)
		}
	}

	first, err := s.RecomputeDaily(date)
	if err != nil {
		t.Fatalf("RecomputeDaily: %v", err)
	}
	second, err := s.RecomputeDaily(date)
	if err != nil {
		t.Fatalf("RecomputeDaily (again): %v", err)
	}

	if first != second {
		t.Fatalf("recompute not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
	if first.TotalSecs != 5100 {
		t.Errorf("TotalSecs = %d, want 5100", first.TotalSecs)
	}
	if first.ProductiveSecs != 3600 {
		t.Errorf("ProductiveSecs = %d, want 3600", first.ProductiveSecs)
	}
	if first.DistractionSecs != 900 {
		t.Errorf("DistractionSecs = %d, want 900", first.DistractionSecs)
	}
	if first.TopApp != "Code" {
		t.Errorf("TopApp = %q, want Code", first.TopApp)
	}
	if first.SessionCount != 3 {
		t.Errorf("SessionCount = %d, want 3", first.SessionCount)
	}

	stored, ok, err := s.DailyAggregate(date)
	if err != nil || !ok {
		t.Fatalf("DailyAggregate: ok=%v err=%v", ok, err)
	}
	if stored.TotalSecs != first.TotalSecs || stored.TopApp != first.TopApp {
		t.Fatalf("stored aggregate differs: %+v vs %+v", stored, first)
	}
}

func TestRecomputeDailyEmptyDay(t *testing.T) {
	s := openTestStore(t)
	date, _ := time.Parse(time.RFC3339, "2026-01-01T00:00:00Z")

	agg, err := s.RecomputeDaily(date)
	if err != nil {
		t.Fatalf("RecomputeDaily: %v", err)
	}
	if agg.SessionCount != 0 || agg.TotalSecs != 0 {
		t.Fatalf("empty day aggregate not zero: %+v", agg)
	}
}

func TestRecomputeAppUsage(t *testing.T) {
	s := openTestStore(t)
	date, _ := time.Parse(time.RFC3339, "2026-08-25T00:00:00Z")

	seed := []model.Session{
		mkSession(t, "Code", "2026-08-25T09:00:00Z", 100, model.CategoryDevelopment),
		mkSession(t, "Code", "2026-08-25T10:00:00Z", 200, model.CategoryDevelopment),
		mkSession(t, "Slack", "2026-08-25T11:00:00Z", 50, model.CategoryCommunication),
	}
	for _, sess := range seed {
		if err := s.AppendSession(sess); err != nil {
			t.Fatalf("AppendSession: %v", err)
		}
	}

	aggs, err := s.RecomputeAppUsage(date)
	if err != nil {
		t.Fatalf("RecomputeAppUsage: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("len = %d, want 2", len(aggs))
	}
	if aggs[0].App != "Code" || aggs[0].TotalSecs != 300 || aggs[0].LaunchCount != 2 {
		t.Fatalf("top app aggregate: %+v", aggs[0])
	}
	if aggs[1].App != "Slack" || aggs[1].LaunchCount != 1 {
		t.Fatalf("second app aggregate: %+v", aggs[1])
	}

	again, err := s.RecomputeAppUsage(date)
	if err != nil {
		t.Fatalf("RecomputeAppUsage (again): %v", err)
	}
	for i := range aggs {
		if aggs[i] != again[i] {
			t.Fatalf("recompute not idempotent at %d: %+v vs %+v", i, aggs[i], again[i])
		}
	}
}

func TestComputeDailyTopAppTieBreak(t *testing.T) {
	date := time.Now()
	sessions := []model.Session{
		{App: "Zed", DurationSec: 100, Category: model.CategoryDevelopment},
		{App: "Atom", DurationSec: 100, Category: model.CategoryDevelopment},
	}
	agg := ComputeDaily(date, sessions)
	if agg.TopApp != "Atom" {
		t.Fatalf("TopApp = %q, want Atom (lexical tie-break)", agg.TopApp)
	}
}

func TestAppendProcessSnapshotsBatch(t *testing.T) {
	s := openTestStore(t)

	now := time.Now()
	snaps := []model.ProcessSnapshot{
		{Timestamp: now, App: "chrome", PID: 1, MemoryBytes: 1 << 30, CPUPercent: 12, Threads: 40},
		{Timestamp: now, App: "code", PID: 2, MemoryBytes: 1 << 29, CPUPercent: 8, Threads: 30},
	}
	if err := s.AppendProcessSnapshots(snaps); err != nil {
		t.Fatalf("AppendProcessSnapshots: %v", err)
	}
	if err := s.AppendProcessSnapshots(nil); err != nil {
		t.Fatalf("AppendProcessSnapshots(nil): %v", err)
	}
}

func TestAppendFocusSessionRoundtrip(t *testing.T) {
	s := openTestStore(t)

	start, _ := time.Parse(time.RFC3339, "2026-08-25T09:00:00Z")
	fs := model.FocusSession{
		StartTime:       start,
		EndTime:         start.Add(25 * time.Minute),
		TargetMinutes:   25,
		FocusSeconds:    1400,
		DistractionSecs: 100,
		Interruptions:   3,
		Score:           93.3,
		Goal:            "write store tests",
	}
	if err := s.AppendFocusSession(fs); err != nil {
		t.Fatalf("AppendFocusSession: %v", err)
	}

	got, err := s.RecentFocusSessions(5)
	if err != nil {
		t.Fatalf("RecentFocusSessions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Goal != fs.Goal || got[0].Interruptions != 3 || got[0].TargetMinutes != 25 {
		t.Fatalf("roundtrip mismatch: %+v", got[0])
	}
}

func TestAppendBrowserVisitsDedup(t *testing.T) {
	s := openTestStore(t)

	now, _ := time.Parse(time.RFC3339, "2026-08-25T09:00:00Z")
	visits := []model.BrowserVisit{
		{URL: "https://go.dev", Title: "The Go Programming Language", VisitedAt: now},
	}
	if err := s.AppendBrowserVisits(visits); err != nil {
		t.Fatalf("AppendBrowserVisits: %v", err)
	}
	// Same (url, visited_at) again must not fail.
	if err := s.AppendBrowserVisits(visits); err != nil {
		t.Fatalf("AppendBrowserVisits (dup): %v", err)
	}
}
