package model

import "time"

// DailyAggregate summarizes one calendar day of sessions. It is a pure
// function of that day's Session rows and is recomputed by upsert, so
// recomputing it any number of times yields the same row.
type DailyAggregate struct {
	Date            time.Time
	TotalSecs       int64
	ProductiveSecs  int64
	DistractionSecs int64
	TopApp          string
	TopCategory     Category
	SessionCount    int
}

// AppUsageAggregate summarizes one app's usage on one day.
type AppUsageAggregate struct {
	Date        time.Time
	App         string
	TotalSecs   int64
	AvgMemory   int64
	AvgCPU      float64
	LaunchCount int
}

// CategoryTotal is one category's share of a day, for report rendering.
type CategoryTotal struct {
	Category Category
	Secs     int64
}
