package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/theirongolddev/lookout/internal/model"
)

// productiveCategories count toward the productive total in daily
// aggregates. Browsing and Other count toward neither side.
var productiveCategories = map[model.Category]bool{
	model.CategoryDevelopment:   true,
	model.CategoryResearch:      true,
	model.CategoryProductivity:  true,
	model.CategoryCommunication: true,
}

// RecomputeDaily rebuilds the daily aggregate for the given date from
// the session rows and upserts it. It is a pure function of that day's
// sessions: recomputing any number of times yields the same row.
func (s *Store) RecomputeDaily(date time.Time) (model.DailyAggregate, error) {
	sessions, err := s.SessionsOn(date)
	if err != nil {
		return model.DailyAggregate{}, fmt.Errorf("loading sessions: %w", err)
	}

	agg := ComputeDaily(date, sessions)

	_, err = s.db.Exec(`INSERT INTO daily_aggregates
		(date, total_secs, productive_secs, distraction_secs, top_app, top_category, session_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_secs = excluded.total_secs,
			productive_secs = excluded.productive_secs,
			distraction_secs = excluded.distraction_secs,
			top_app = excluded.top_app,
			top_category = excluded.top_category,
			session_count = excluded.session_count`,
		dayKey(date), agg.TotalSecs, agg.ProductiveSecs, agg.DistractionSecs,
		agg.TopApp, string(agg.TopCategory), agg.SessionCount,
	)
	if err != nil {
		return agg, fmt.Errorf("upserting daily aggregate: %w", err)
	}
	return agg, nil
}

// RecomputeAppUsage rebuilds per-app aggregates for the given date and
// upserts one row per (date, app). Idempotent like RecomputeDaily.
func (s *Store) RecomputeAppUsage(date time.Time) ([]model.AppUsageAggregate, error) {
	sessions, err := s.SessionsOn(date)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}

	aggs := ComputeAppUsage(date, sessions)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning app usage tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range aggs {
		_, err := tx.Exec(`INSERT INTO app_usage_aggregates
			(date, app, total_secs, avg_memory_bytes, avg_cpu_percent, launch_count)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(date, app) DO UPDATE SET
				total_secs = excluded.total_secs,
				avg_memory_bytes = excluded.avg_memory_bytes,
				avg_cpu_percent = excluded.avg_cpu_percent,
				launch_count = excluded.launch_count`,
			dayKey(date), a.App, a.TotalSecs, a.AvgMemory, a.AvgCPU, a.LaunchCount,
		)
		if err != nil {
			return nil, fmt.Errorf("upserting app usage for %s: %w", a.App, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return aggs, nil
}

// ComputeDaily derives a daily aggregate from session rows. Exposed so
// the derivation is testable without a database.
func ComputeDaily(date time.Time, sessions []model.Session) model.DailyAggregate {
	agg := model.DailyAggregate{Date: date}

	appSecs := make(map[string]int64)
	catSecs := make(map[model.Category]int64)

	for _, sess := range sessions {
		agg.SessionCount++
		agg.TotalSecs += sess.DurationSec
		appSecs[sess.App] += sess.DurationSec
		catSecs[sess.Category] += sess.DurationSec

		if productiveCategories[sess.Category] {
			agg.ProductiveSecs += sess.DurationSec
		}
		if sess.Category == model.CategoryDistraction {
			agg.DistractionSecs += sess.DurationSec
		}
	}

	agg.TopApp = maxKey(appSecs)
	if top := maxCatKey(catSecs); top != "" {
		agg.TopCategory = top
	}

	return agg
}

// ComputeAppUsage derives per-app aggregates from session rows, sorted
// by total duration descending, app name as tie-break.
func ComputeAppUsage(date time.Time, sessions []model.Session) []model.AppUsageAggregate {
	byApp := make(map[string]*model.AppUsageAggregate)
	memSums := make(map[string]int64)
	cpuSums := make(map[string]float64)

	for _, sess := range sessions {
		a, ok := byApp[sess.App]
		if !ok {
			a = &model.AppUsageAggregate{Date: date, App: sess.App}
			byApp[sess.App] = a
		}
		a.TotalSecs += sess.DurationSec
		a.LaunchCount++
		memSums[sess.App] += sess.MemoryBytes
		cpuSums[sess.App] += sess.CPUPercent
	}

	aggs := make([]model.AppUsageAggregate, 0, len(byApp))
	for app, a := range byApp {
		n := int64(a.LaunchCount)
		a.AvgMemory = memSums[app] / n
		a.AvgCPU = cpuSums[app] / float64(n)
		aggs = append(aggs, *a)
	}

	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].TotalSecs != aggs[j].TotalSecs {
			return aggs[i].TotalSecs > aggs[j].TotalSecs
		}
		return aggs[i].App < aggs[j].App
	})

	return aggs
}

// DailyAggregate reads the stored aggregate row for a date, if present.
func (s *Store) DailyAggregate(date time.Time) (model.DailyAggregate, bool, error) {
	var agg model.DailyAggregate
	var cat string
	err := s.db.QueryRow(`SELECT
		total_secs, productive_secs, distraction_secs, top_app, top_category, session_count
		FROM daily_aggregates WHERE date = ?`, dayKey(date)).Scan(
		&agg.TotalSecs, &agg.ProductiveSecs, &agg.DistractionSecs,
		&agg.TopApp, &cat, &agg.SessionCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return agg, false, nil
		}
		return agg, false, err
	}
	agg.Date = date
	agg.TopCategory = model.Category(cat)
	return agg, true, nil
}

// CategoryTotals groups a date's session seconds by category, largest
// first, category name as tie-break.
func (s *Store) CategoryTotals(date time.Time) ([]model.CategoryTotal, error) {
	sessions, err := s.SessionsOn(date)
	if err != nil {
		return nil, err
	}

	secs := make(map[model.Category]int64)
	for _, sess := range sessions {
		secs[sess.Category] += sess.DurationSec
	}

	totals := make([]model.CategoryTotal, 0, len(secs))
	for cat, v := range secs {
		totals = append(totals, model.CategoryTotal{Category: cat, Secs: v})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Secs != totals[j].Secs {
			return totals[i].Secs > totals[j].Secs
		}
		return totals[i].Category < totals[j].Category
	})
	return totals, nil
}

// maxKey returns the key with the largest value, smallest key winning
// ties so recomputation is deterministic.
func maxKey(m map[string]int64) string {
	var best string
	var bestV int64 = -1
	for k, v := range m {
		if v > bestV || (v == bestV && k < best) {
			best, bestV = k, v
		}
	}
	return best
}

func maxCatKey(m map[model.Category]int64) model.Category {
	var best model.Category
	var bestV int64 = -1
	for k, v := range m {
		if v > bestV || (v == bestV && k < best) {
			best, bestV = k, v
		}
	}
	return best
}
