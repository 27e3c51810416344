package merge

import (
	"fmt"
	"log/slog"

	"github.com/jgoulah/studytrack/internal/calendar"
	"github.com/jgoulah/studytrack/internal/table"
)

// Column names used by the exports and the merged output
const (
	ColDate         = "Date"
	ColStartTime    = "Start Time"
	ColEndTime      = "End Time"
	ColSummary      = "SUMMARY"
	ColDue          = "DUE"
	ColHomework     = "homework"
	ColProject      = "project"
	ColExam         = "exam"
	ColWeekNum      = "weeknum"
	ColWeeklyAssign = "Weekly Assign Num"
	ColIsWeekend    = "Is Weekend"
	ColIsBreak      = "Is Break"
	ColSteps        = "Steps"
	ColCalories     = "Calories Burned"
)

// setKey writes key into the Date column, adding it when absent
func setKey(t *table.Table, keys []string) {
	if !t.Has(ColDate) {
		t.AddColumn(ColDate, func(i int) string { return keys[i] })
		return
	}
	for i, k := range keys {
		_ = t.Set(i, ColDate, k)
	}
}

// NormalizeActivity replaces the activity Date with its day key
func NormalizeActivity(src *table.Table, layout string) (*table.Table, error) {
	if err := src.Require(ColDate); err != nil {
		return nil, fmt.Errorf("activity data: %w", err)
	}

	t := src.Clone()
	keys := make([]string, t.Len())
	for i := range t.Rows {
		d, err := calendar.ParseTimestamp(t.Get(i, ColDate))
		if err != nil {
			return nil, fmt.Errorf("activity row %d: parsing %s: %w", i+1, ColDate, err)
		}
		keys[i] = calendar.DayKey(d, layout)
	}
	setKey(t, keys)
	return t, nil
}

// NormalizeSleep keys each sleep session by the day of its start time and
// rewrites both timestamps in a uniform layout
func NormalizeSleep(src *table.Table, layout string) (*table.Table, error) {
	if err := src.Require(ColStartTime, ColEndTime); err != nil {
		return nil, fmt.Errorf("sleep data: %w", err)
	}

	t := src.Clone()
	keys := make([]string, t.Len())
	for i := range t.Rows {
		start, err := calendar.ParseTimestamp(t.Get(i, ColStartTime))
		if err != nil {
			return nil, fmt.Errorf("sleep row %d: parsing %s: %w", i+1, ColStartTime, err)
		}
		end, err := calendar.ParseTimestamp(t.Get(i, ColEndTime))
		if err != nil {
			return nil, fmt.Errorf("sleep row %d: parsing %s: %w", i+1, ColEndTime, err)
		}
		_ = t.Set(i, ColStartTime, start.Format(calendar.TimestampLayout))
		_ = t.Set(i, ColEndTime, end.Format(calendar.TimestampLayout))
		keys[i] = calendar.DayKey(start, layout)
	}
	setKey(t, keys)
	return t, nil
}

// NormalizeAssignments keys each assignment by the night before it is due.
// Entries without a due date cannot be attributed to a day and are skipped.
func NormalizeAssignments(src *table.Table, layout string, logger *slog.Logger) (*table.Table, error) {
	if err := src.Require(ColSummary, ColDue); err != nil {
		return nil, fmt.Errorf("assignment data: %w", err)
	}

	var keys []string
	t := table.New(src.Columns)
	for i := range src.Rows {
		raw := src.Get(i, ColDue)
		if raw == "" {
			logger.Debug("Skipping assignment without due date",
				slog.Int("row", i+1),
				slog.String("summary", src.Get(i, ColSummary)))
			continue
		}
		due, err := calendar.ParseTimestamp(raw)
		if err != nil {
			return nil, fmt.Errorf("assignment row %d: parsing %s: %w", i+1, ColDue, err)
		}
		t.Append(src.Rows[i])
		keys = append(keys, calendar.DayKey(calendar.NightBefore(due), layout))
	}
	setKey(t, keys)
	return t, nil
}
