package merge

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/studytrack/internal/calendar"
	"github.com/jgoulah/studytrack/internal/table"
)

var activityColumns = []string{"Date", "Calories Burned", "Steps", "Minutes Sedentary", "Activity Calories", "Floors"}

func activityFixture(dates ...string) *table.Table {
	t := table.New(activityColumns)
	for _, d := range dates {
		t.Append([]string{d, "2,100", "12,345", "700", "1,050", "0"})
	}
	return t
}

// nightly sleep from 23:00 on each date to 07:00 the next morning
func sleepFixture(dates ...string) *table.Table {
	t := table.New([]string{"Start Time", "End Time", "Minutes Asleep"})
	for _, d := range dates {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			panic(err)
		}
		start := day.Add(23 * time.Hour)
		t.Append([]string{
			start.Format("2006-01-02 3:04PM"),
			start.Add(8 * time.Hour).Format("2006-01-02 3:04PM"),
			"450",
		})
	}
	return t
}

func assignmentFixture(rows ...[]string) *table.Table {
	t := table.New([]string{"SUMMARY", "DUE"})
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func column(t *table.Table, col string) []string {
	var out []string
	for i := range t.Rows {
		out = append(out, t.Get(i, col))
	}
	return out
}

func TestBuildRoundTrip(t *testing.T) {
	out, err := Build(
		activityFixture("2024-01-01", "2024-01-02", "2024-01-03"),
		sleepFixture("2024-01-01", "2024-01-02", "2024-01-03"),
		assignmentFixture([]string{"Midterm Exam", "2024-01-03 09:00:00"}),
		Options{},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Calories Burned", "Steps", "Minutes Sedentary", "Activity Calories",
		"Start Time", "End Time", "Minutes Asleep",
		"homework", "project", "exam",
		"Weekly Assign Num", "Is Weekend", "Is Break",
	}, out.Columns)
	require.Equal(t, 3, out.Len())

	assert.Equal(t, []string{"2024-01-01 23:00:00", "2024-01-02 23:00:00", "2024-01-03 23:00:00"}, column(out, "Start Time"))
	assert.Equal(t, []string{"0", "1", "0"}, column(out, "exam"))
	assert.Equal(t, []string{"0", "0", "0"}, column(out, "homework"))
	assert.Equal(t, []string{"1", "1", "1"}, column(out, "Weekly Assign Num"))
	assert.Equal(t, []string{"0", "0", "0"}, column(out, "Is Weekend"))
	assert.Equal(t, []string{"0", "0", "0"}, column(out, "Is Break"))

	assert.Equal(t, []string{"12345", "12345", "12345"}, column(out, "Steps"))
	assert.Equal(t, []string{"1050", "1050", "1050"}, column(out, "Activity Calories"))
	assert.False(t, out.Has("Date"))
	assert.False(t, out.Has("Floors"))
	assert.False(t, out.Has("weeknum"))
}

func TestBuildDropsDaysWithoutSleep(t *testing.T) {
	// Sunday due date lands on Saturday 2024-01-06, which has no sleep record
	out, err := Build(
		activityFixture("2024-01-01", "2024-01-02", "2024-01-06"),
		sleepFixture("2024-01-01", "2024-01-02"),
		assignmentFixture(
			[]string{"Project milestone", "2024-01-07 23:59:00"},
			[]string{"Assignment 2", "2024-01-02 17:00:00"},
		),
		Options{},
	)
	require.NoError(t, err)

	require.Equal(t, 2, out.Len())
	for i := range out.Rows {
		assert.NotEmpty(t, out.Get(i, "Start Time"))
	}
	assert.Equal(t, []string{"1", "0"}, column(out, "homework"))
	// the dropped Saturday still counts toward its week
	assert.Equal(t, []string{"2", "2"}, column(out, "Weekly Assign Num"))
}

func TestBuildSumsSameNightAssignments(t *testing.T) {
	out, err := Build(
		activityFixture("2024-01-02"),
		sleepFixture("2024-01-02"),
		assignmentFixture(
			[]string{"HW assignment 1", "01/03/2024 11:59 PM"},
			[]string{"Project proposal", "2024-01-03"},
			[]string{"Quiz", "2024-01-03"},
			[]string{"", "2024-01-03"},
			[]string{"Reading", ""},
		),
		Options{},
	)
	require.NoError(t, err)

	require.Equal(t, 1, out.Len())
	assert.Equal(t, "1", out.Get(0, "homework"))
	assert.Equal(t, "1", out.Get(0, "project"))
	assert.Equal(t, "0", out.Get(0, "exam"))
	assert.Equal(t, "2", out.Get(0, "Weekly Assign Num"))
}

func TestBuildWeeklyTotals(t *testing.T) {
	dates := []string{"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08"}
	out, err := Build(
		activityFixture(dates...),
		sleepFixture(dates...),
		assignmentFixture(
			[]string{"Exam 1", "2024-01-06"},     // Fri 01-05, week 1
			[]string{"Homework 1", "2024-01-08"}, // Sun 01-07, week 1
			[]string{"Project", "2024-01-09"},    // Mon 01-08, week 2
		),
		Options{},
	)
	require.NoError(t, err)

	require.Equal(t, 4, out.Len())
	assert.Equal(t, []string{"2", "2", "2", "1"}, column(out, "Weekly Assign Num"))
	assert.Equal(t, []string{"0", "1", "1", "0"}, column(out, "Is Weekend"))

	// weekly total equals the sum of daily counts within the week
	sum := 0
	for i := 0; i < 3; i++ {
		for _, c := range []string{"homework", "project", "exam"} {
			sum += int(out.Get(i, c)[0] - '0')
		}
	}
	assert.Equal(t, 2, sum)
}

func TestBuildBreakWeeks(t *testing.T) {
	// 2018-03-19 is ISO week 12, 2018-03-26 week 13, 2018-04-02 week 14
	dates := []string{"2018-03-19", "2018-03-26", "2018-04-02"}

	out, err := Build(activityFixture(dates...), sleepFixture(dates...), assignmentFixture(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "1", "0"}, column(out, "Is Break"))

	out, err = Build(activityFixture(dates...), sleepFixture(dates...), assignmentFixture(), Options{BreakWeeks: []int{14}})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "0", "1"}, column(out, "Is Break"))
}

func TestBuildKeyLayout(t *testing.T) {
	out, err := Build(
		activityFixture("2024-01-01"),
		sleepFixture("2024-01-01"),
		assignmentFixture([]string{"Exam", "2024-01-02"}),
		Options{KeyLayout: "2006-01-02", DropColumns: []string{"Floors"}},
	)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "2024-01-01", out.Get(0, "Date"))
	assert.Equal(t, "1", out.Get(0, "weeknum"))
	assert.Equal(t, "1", out.Get(0, "exam"))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name        string
		activity    *table.Table
		sleep       *table.Table
		assignments *table.Table
		opts        Options
		target      error
		contains    string
	}{
		{
			name:        "unparseable activity date",
			activity:    newTable(activityColumns, []string{"yesterday", "1", "1", "1", "1", "0"}),
			sleep:       sleepFixture("2024-01-01"),
			assignments: assignmentFixture(),
			target:      calendar.ErrUnparseable,
			contains:    "activity row 1",
		},
		{
			name:        "unparseable due date",
			activity:    activityFixture("2024-01-01"),
			sleep:       sleepFixture("2024-01-01"),
			assignments: assignmentFixture([]string{"Exam", "someday"}),
			target:      calendar.ErrUnparseable,
			contains:    "DUE",
		},
		{
			name:        "sleep without end time",
			activity:    activityFixture("2024-01-01"),
			sleep:       newTable([]string{"Start Time"}, []string{"2024-01-01 23:00:00"}),
			assignments: assignmentFixture(),
			target:      table.ErrMissingColumn,
			contains:    "End Time",
		},
		{
			name:        "assignments without summary",
			activity:    activityFixture("2024-01-01"),
			sleep:       sleepFixture("2024-01-01"),
			assignments: newTable([]string{"DUE"}),
			target:      table.ErrMissingColumn,
			contains:    "SUMMARY",
		},
		{
			name:        "missing numeric column",
			activity:    activityFixture("2024-01-01"),
			sleep:       sleepFixture("2024-01-01"),
			assignments: assignmentFixture(),
			opts:        Options{NumericColumns: []string{"Distance"}},
			target:      table.ErrMissingColumn,
			contains:    "Distance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.activity, tt.sleep, tt.assignments, tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestBuildNonNumericSteps(t *testing.T) {
	activity := newTable(activityColumns, []string{"2024-01-01", "2,100", "lots", "700", "1,050", "0"})

	_, err := Build(activity, sleepFixture("2024-01-01"), assignmentFixture(), Options{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Steps"), err.Error())
}

func TestBuildEmptyNumericCellStaysEmpty(t *testing.T) {
	activity := newTable(activityColumns, []string{"2024-01-01", "", "1,234.5", "700", "1,050", "0"})

	out, err := Build(activity, sleepFixture("2024-01-01"), assignmentFixture(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "", out.Get(0, "Calories Burned"))
	assert.Equal(t, "1234.5", out.Get(0, "Steps"))
}

func TestSummaries(t *testing.T) {
	out, err := Build(
		activityFixture("2024-01-05", "2024-01-06"),
		sleepFixture("2024-01-05", "2024-01-06"),
		assignmentFixture([]string{"Final exam", "2024-01-07"}),
		Options{},
	)
	require.NoError(t, err)

	days, err := Summaries(out)
	require.NoError(t, err)
	require.Len(t, days, 2)

	sat := days[1]
	assert.Equal(t, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), sat.Date)
	assert.Equal(t, time.Date(2024, 1, 6, 23, 0, 0, 0, time.UTC), sat.StartTime)
	assert.Equal(t, time.Date(2024, 1, 7, 7, 0, 0, 0, time.UTC), sat.EndTime)
	assert.Equal(t, 12345.0, sat.Steps)
	assert.Equal(t, 2100.0, sat.CaloriesBurned)
	assert.Equal(t, 1, sat.Exam)
	assert.Equal(t, 1, sat.WeeklyAssign)
	assert.True(t, sat.IsWeekend)
	assert.False(t, sat.IsBreak)
	assert.Equal(t, "450", sat.Fields["Minutes Asleep"])

	assert.False(t, days[0].IsWeekend)
	assert.Equal(t, 0, days[0].Exam)
}

func TestSummariesRequiresStartTime(t *testing.T) {
	_, err := Summaries(newTable([]string{"Steps"}))
	assert.ErrorIs(t, err, table.ErrMissingColumn)
}
