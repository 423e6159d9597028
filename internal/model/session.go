// Package model defines domain types for lookout sessions and aggregates.
package model

import "time"

// Category classifies what kind of work a window represents.
type Category string

// Known categories. Categorization is a pure rule lookup; anything that
// matches no rule falls through to CategoryOther.
const (
	CategoryDevelopment   Category = "Development"
	CategoryBrowsing      Category = "Browsing"
	CategoryResearch      Category = "Research"
	CategoryCommunication Category = "Communication"
	CategoryProductivity  Category = "Productivity"
	CategoryDistraction   Category = "Distraction"
	CategoryOther         Category = "Other"
)

// Session is one contiguous interval of foreground focus on a single
// (app, window title) pair. Append-only once closed.
type Session struct {
	ID          int64
	App         string
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	DurationSec int64
	Category    Category
	MemoryBytes int64
	CPUPercent  float64
	PID         int32
}

// FocusSession is the terminal record of one focus or pomodoro run.
// Exactly one row is written per run, at stop, and never updated.
type FocusSession struct {
	ID              int64
	StartTime       time.Time
	EndTime         time.Time
	TargetMinutes   int
	FocusSeconds    int64
	DistractionSecs int64
	Interruptions   int
	Score           float64
	Goal            string
}

// ProcessSnapshot is one row of sampled process telemetry.
type ProcessSnapshot struct {
	Timestamp   time.Time
	App         string
	PID         int32
	MemoryBytes int64
	CPUPercent  float64
	Threads     int32
}

// BrowserVisit is one imported browser-history entry.
type BrowserVisit struct {
	URL       string
	Title     string
	VisitedAt time.Time
}
