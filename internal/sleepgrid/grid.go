// Package sleepgrid expands sleep intervals into dense per-minute asleep
// indicators.
package sleepgrid

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jgoulah/studytrack/internal/calendar"
	"github.com/jgoulah/studytrack/internal/table"
	"github.com/jgoulah/studytrack/pkg/models"
)

// Output columns
const (
	ColDatetime   = "Datetime"
	ColAsleep     = "Asleep"
	ColTimeOffset = "Time Offset"
)

// Anchor selects which end of the intervals bounds the grid
type Anchor int

const (
	// AnchorSleep bounds the grid by session start times
	AnchorSleep Anchor = iota
	// AnchorWake bounds the grid by session end times
	AnchorWake
)

func (a Anchor) String() string {
	if a == AnchorWake {
		return "wake"
	}
	return "sleep"
}

func (a Anchor) pick(iv models.SleepInterval) time.Time {
	if a == AnchorWake {
		return iv.End
	}
	return iv.Start
}

// Intervals reads Start Time / End Time pairs from a raw sleep table
func Intervals(t *table.Table) ([]models.SleepInterval, error) {
	if err := t.Require("Start Time", "End Time"); err != nil {
		return nil, fmt.Errorf("sleep data: %w", err)
	}

	out := make([]models.SleepInterval, 0, t.Len())
	for i := range t.Rows {
		start, err := calendar.ParseTimestamp(t.Get(i, "Start Time"))
		if err != nil {
			return nil, fmt.Errorf("sleep row %d: parsing Start Time: %w", i+1, err)
		}
		end, err := calendar.ParseTimestamp(t.Get(i, "End Time"))
		if err != nil {
			return nil, fmt.Errorf("sleep row %d: parsing End Time: %w", i+1, err)
		}
		out = append(out, models.SleepInterval{Start: start, End: end})
	}
	return out, nil
}

// HourRange returns the bounding hours [lo, hi) of the anchor timestamps:
// the earliest anchor hour through one past the latest.
func HourRange(intervals []models.SleepInterval, anchor Anchor) (lo, hi int) {
	if len(intervals) == 0 {
		return 0, 0
	}
	lo, hi = 24, 0
	for _, iv := range intervals {
		h := anchor.pick(iv).Hour()
		lo = min(lo, h)
		hi = max(hi, h+1)
	}
	return lo, hi
}

// days returns the distinct anchor days in ascending order
func days(intervals []models.SleepInterval, anchor Anchor) []time.Time {
	seen := make(map[string]bool)
	var out []time.Time
	for _, iv := range intervals {
		d := calendar.Truncate(anchor.pick(iv))
		key := d.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Build lays out one minute per row for every anchor day within the bounding
// hour range, then marks each minute inside any interval's [start, end).
func Build(intervals []models.SleepInterval, anchor Anchor) []models.MinuteIndicator {
	lo, hi := HourRange(intervals, anchor)
	perDay := (hi - lo) * 60
	ds := days(intervals, anchor)

	grid := make([]models.MinuteIndicator, len(ds)*perDay)
	for d, day := range ds {
		base := day.Add(time.Duration(lo) * time.Hour)
		for m := 0; m < perDay; m++ {
			grid[d*perDay+m] = models.MinuteIndicator{
				Datetime:   base.Add(time.Duration(m) * time.Minute),
				TimeOffset: m + 1,
			}
		}
	}

	// grid is strictly ascending, so each interval covers one contiguous run
	for _, iv := range intervals {
		i := sort.Search(len(grid), func(k int) bool {
			return !grid[k].Datetime.Before(iv.Start)
		})
		for ; i < len(grid) && grid[i].Datetime.Before(iv.End); i++ {
			grid[i].Asleep = true
		}
	}
	return grid
}

// ToTable renders a grid with the Datetime, Asleep and Time Offset columns
func ToTable(grid []models.MinuteIndicator) *table.Table {
	t := table.New([]string{ColDatetime, ColAsleep, ColTimeOffset})
	t.Rows = make([][]string, len(grid))
	for i, m := range grid {
		asleep := "0"
		if m.Asleep {
			asleep = "1"
		}
		t.Rows[i] = []string{
			m.Datetime.Format(calendar.TimestampLayout),
			asleep,
			strconv.Itoa(m.TimeOffset),
		}
	}
	return t
}
