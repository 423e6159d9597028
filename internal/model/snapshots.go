package model

import "time"

// FocusStatus is the per-tick classification of the focus engine.
type FocusStatus string

// Focus engine states. WAITING is the initial state before any
// non-whitelisted window establishes the context lock.
const (
	FocusWaiting    FocusStatus = "WAITING_FOR_CONTEXT"
	FocusFocused    FocusStatus = "LOCKED_FOCUSED"
	FocusDistracted FocusStatus = "LOCKED_DISTRACTED"
	FocusNeutral    FocusStatus = "NEUTRAL"
)

// TrackerSnapshot is the live state the tracker exposes to the CLI,
// status API, and TUI.
type TrackerSnapshot struct {
	At            time.Time `json:"at"`
	App           string    `json:"app,omitempty"`
	Title         string    `json:"title,omitempty"`
	Category      Category  `json:"category,omitempty"`
	OpenSince     time.Time `json:"open_since,omitempty"`
	TotalLogged   int64     `json:"total_logged"`
	TotalSwitches int64     `json:"total_switches"`
}

// FocusSnapshot is the live state of a focus or pomodoro run.
type FocusSnapshot struct {
	At              time.Time   `json:"at"`
	Status          FocusStatus `json:"status"`
	Goal            string      `json:"goal,omitempty"`
	LockedApp       string      `json:"locked_app,omitempty"`
	LockedTitle     string      `json:"locked_title,omitempty"`
	FocusSeconds    int64       `json:"focus_seconds"`
	DistractionSecs int64       `json:"distraction_seconds"`
	Interruptions   int         `json:"interruptions"`
	TargetMinutes   int         `json:"target_minutes"`
	Score           float64     `json:"score"`
	Phase           string      `json:"phase,omitempty"` // pomodoro only: "work" or "break"
	Cycle           int         `json:"cycle,omitempty"` // pomodoro only
}
