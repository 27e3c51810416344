// Package calendar normalizes timestamps from the exported datasets into
// day keys and calendar features.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// DefaultKeyLayout is the day key used to join datasets (month/day/2-digit year)
const DefaultKeyLayout = "01/02/06"

// TimestampLayout renders minute-grid timestamps
const TimestampLayout = "2006-01-02 15:04:05"

// ErrUnparseable is returned for values that are not a recognizable timestamp
var ErrUnparseable = errors.New("unparseable timestamp")

// layouts are tried in order before falling back to cast. Month-first
// ordering matches the US exports these files come from.
var layouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 3:04PM",
	"2006-01-02 3:04 PM",
	"2006-01-02 3:04:05PM",
	"2006-01-02 3:04:05 PM",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/06 15:04",
	"1/2/06 3:04 PM",
	"Jan 2, 2006",
	"Jan 2 2006",
	"20060102T150405Z",
	"20060102T150405",
	"20060102",
}

// ParseTimestamp parses a timestamp from an export. Values without a zone are
// read as wall-clock time in UTC so calendar arithmetic never crosses a DST
// transition.
func ParseTimestamp(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrUnparseable)
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}

	t, err := cast.ToTimeInDefaultLocationE(v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, v)
	}
	return t, nil
}

// DayKey formats the day of t as a join key
func DayKey(t time.Time, layout string) string {
	if layout == "" {
		layout = DefaultKeyLayout
	}
	return t.Format(layout)
}

// ParseDayKey reverses DayKey
func ParseDayKey(key, layout string) (time.Time, error) {
	if layout == "" {
		layout = DefaultKeyLayout
	}
	t, err := time.ParseInLocation(layout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day key %q", ErrUnparseable, key)
	}
	return t, nil
}

// NightBefore returns the calendar day before t. Assignment workload is
// attributed to the night before the due date.
func NightBefore(t time.Time) time.Time {
	return t.AddDate(0, 0, -1)
}

// Truncate returns midnight of the day containing t, in t's location
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekNumber returns the ISO 8601 week of t. The ISO year is discarded, so
// days from different years can share a week number.
func WeekNumber(t time.Time) int {
	_, w := t.ISOWeek()
	return w
}

// IsWeekend reports whether t falls on a Saturday or Sunday
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
