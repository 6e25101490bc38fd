package analytics

import "time"

// StatusCount is one row of the final-status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// PriorityCount is one row of the priority breakdown.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int64  `json:"count"`
}

// DurationAverages carries the mean durations over completed cases.
type DurationAverages struct {
	AvgWaitMinutes    float64 `json:"avg_wait_minutes"`
	AvgServiceMinutes float64 `json:"avg_service_minutes"`
	AvgTotalMinutes   float64 `json:"avg_total_minutes"`
}

// RangeSummary is the full analytics payload for a date range. Built only
// from history records, so in-flight entries never skew it.
type RangeSummary struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	TotalCases     int64           `json:"total_cases"`
	EmergencyCases int64           `json:"emergency_cases"`
	TotalSkips     int64           `json:"total_skips"`
	ByStatus       []StatusCount   `json:"by_status"`
	ByPriority     []PriorityCount `json:"by_priority"`

	DurationAverages
}

// StationSummary breaks a range down for one station.
type StationSummary struct {
	StationID string `json:"station_id"`
	RangeSummary
}
