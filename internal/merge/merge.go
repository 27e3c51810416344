// Package merge builds the daily dataset from activity, sleep and assignment
// exports.
//
// The pipeline keys every source by day, inner-joins activity with sleep,
// attributes assignments to the night before they are due, derives weekly and
// calendar indicators, and finally drops days with no sleep session.
package merge

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jgoulah/studytrack/internal/calendar"
	"github.com/jgoulah/studytrack/internal/table"
	"github.com/jgoulah/studytrack/pkg/models"
)

// Options configures Build. Zero values select the defaults.
type Options struct {
	BreakWeeks     []int
	NumericColumns []string
	DropColumns    []string
	KeyLayout      string
	Logger         *slog.Logger
}

// Default option values
var (
	DefaultBreakWeeks     = []int{12, 13}
	DefaultNumericColumns = []string{ColCalories, ColSteps, "Minutes Sedentary", "Activity Calories"}
	DefaultDropColumns    = []string{ColDate, "Floors", ColWeekNum}
)

func (o Options) withDefaults() Options {
	if o.BreakWeeks == nil {
		o.BreakWeeks = DefaultBreakWeeks
	}
	if o.NumericColumns == nil {
		o.NumericColumns = DefaultNumericColumns
	}
	if o.DropColumns == nil {
		o.DropColumns = DefaultDropColumns
	}
	if o.KeyLayout == "" {
		o.KeyLayout = calendar.DefaultKeyLayout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Build merges the three raw tables into the daily dataset
func Build(activity, sleep, assignments *table.Table, opts Options) (*table.Table, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	a, err := NormalizeActivity(activity, opts.KeyLayout)
	if err != nil {
		return nil, err
	}
	s, err := NormalizeSleep(sleep, opts.KeyLayout)
	if err != nil {
		return nil, err
	}
	c, err := NormalizeAssignments(assignments, opts.KeyLayout, logger)
	if err != nil {
		return nil, err
	}

	sa, err := innerJoin(a, s, ColDate)
	if err != nil {
		return nil, fmt.Errorf("joining activity and sleep: %w", err)
	}
	logger.Debug("Joined activity and sleep",
		slog.Int("activity_rows", a.Len()),
		slog.Int("sleep_rows", s.Len()),
		slog.Int("joined_rows", sa.Len()))

	csa, err := outerJoin(sa, c, ColDate, opts.KeyLayout)
	if err != nil {
		return nil, fmt.Errorf("joining assignments: %w", err)
	}
	assign := aggregateAssignments(csa)
	logger.Debug("Aggregated assignments",
		slog.Int("assignment_rows", c.Len()),
		slog.Int("days", assign.Len()))

	data, err := outerJoin(sa, assign, ColDate, opts.KeyLayout)
	if err != nil {
		return nil, fmt.Errorf("joining assignment counts: %w", err)
	}

	if err := addCalendarFeatures(data, opts.KeyLayout, opts.BreakWeeks); err != nil {
		return nil, fmt.Errorf("adding calendar features: %w", err)
	}

	out, err := clean(data, opts.DropColumns, opts.NumericColumns)
	if err != nil {
		return nil, fmt.Errorf("cleaning merged data: %w", err)
	}
	logger.Info("Merged dataset built",
		slog.Int("rows", out.Len()),
		slog.Int("dropped_without_sleep", data.Len()-out.Len()))

	return out, nil
}

// Summaries converts merged rows into stored day summaries. The day is the
// date of the sleep session start, which is the row's join key.
func Summaries(t *table.Table) ([]models.DaySummary, error) {
	if err := t.Require(ColStartTime); err != nil {
		return nil, err
	}

	days := make([]models.DaySummary, 0, t.Len())
	for i := range t.Rows {
		start, err := time.ParseInLocation(calendar.TimestampLayout, t.Get(i, ColStartTime), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing %s: %w", i+1, ColStartTime, err)
		}
		d := models.DaySummary{
			Date:      calendar.Truncate(start),
			StartTime: start,
			Fields:    make(map[string]string, len(t.Columns)),
		}
		if v := t.Get(i, ColEndTime); v != "" {
			if d.EndTime, err = time.ParseInLocation(calendar.TimestampLayout, v, time.UTC); err != nil {
				return nil, fmt.Errorf("row %d: parsing %s: %w", i+1, ColEndTime, err)
			}
		}
		for _, f := range []struct {
			col string
			dst *float64
		}{{ColSteps, &d.Steps}, {ColCalories, &d.CaloriesBurned}} {
			if v := t.Get(i, f.col); v != "" {
				if *f.dst, err = parseNumber(v); err != nil {
					return nil, fmt.Errorf("row %d: parsing %s: %w", i+1, f.col, err)
				}
			}
		}
		for _, f := range []struct {
			col string
			dst *int
		}{
			{ColHomework, &d.Homework},
			{ColProject, &d.Project},
			{ColExam, &d.Exam},
			{ColWeeklyAssign, &d.WeeklyAssign},
		} {
			if *f.dst, err = atoi(t, i, f.col); err != nil {
				return nil, err
			}
		}
		d.IsWeekend = t.Get(i, ColIsWeekend) == "1"
		d.IsBreak = t.Get(i, ColIsBreak) == "1"

		for j, col := range t.Columns {
			d.Fields[col] = t.Rows[i][j]
		}
		days = append(days, d)
	}
	return days, nil
}
