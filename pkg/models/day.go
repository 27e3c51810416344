package models

import "time"

// DaySummary represents a single merged day as stored and published
type DaySummary struct {
	ID             int               `json:"id"`
	RunID          string            `json:"run_id,omitempty"`
	Date           time.Time         `json:"date"`       // Just the date (for querying)
	StartTime      time.Time         `json:"start_time"` // Sleep session start
	EndTime        time.Time         `json:"end_time"`   // Sleep session end
	Steps          float64           `json:"steps"`
	CaloriesBurned float64           `json:"calories_burned"`
	Homework       int               `json:"homework"`
	Project        int               `json:"project"`
	Exam           int               `json:"exam"`
	WeeklyAssign   int               `json:"weekly_assign"`
	IsWeekend      bool              `json:"is_weekend"`
	IsBreak        bool              `json:"is_break"`
	Fields         map[string]string `json:"fields,omitempty"` // Full merged row keyed by column
}

// SleepInterval is one recorded sleep session. End may fall on the next day.
type SleepInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls in [Start, End).
func (s SleepInterval) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// MinuteIndicator is one row of a dense per-minute sleep grid
type MinuteIndicator struct {
	Datetime   time.Time `json:"datetime"`
	Asleep     bool      `json:"asleep"`
	TimeOffset int       `json:"time_offset"` // 1-based, restarts each day
}
