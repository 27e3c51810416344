package merge

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/jgoulah/studytrack/internal/calendar"
	"github.com/jgoulah/studytrack/internal/table"
)

func boolInt(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func atoi(t *table.Table, i int, col string) (int, error) {
	v := t.Get(i, col)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("row %d: parsing %s %q: %w", i+1, col, v, err)
	}
	return n, nil
}

// addCalendarFeatures appends weeknum, Weekly Assign Num, Is Weekend and
// Is Break. The weekly total is the sum of homework, project and exam over
// every row sharing the week number.
func addCalendarFeatures(t *table.Table, layout string, breakWeeks []int) error {
	days := make([]int, t.Len())
	weeks := make([]int, t.Len())
	weekend := make([]bool, t.Len())
	totals := make(map[int]int)

	for i := range t.Rows {
		d, err := calendar.ParseDayKey(t.Get(i, ColDate), layout)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		w := calendar.WeekNumber(d)
		weeks[i] = w
		weekend[i] = calendar.IsWeekend(d)

		for _, col := range []string{ColHomework, ColProject, ColExam} {
			n, err := atoi(t, i, col)
			if err != nil {
				return err
			}
			days[i] += n
		}
		totals[w] += days[i]
	}

	t.AddColumn(ColWeekNum, func(i int) string { return strconv.Itoa(weeks[i]) })
	t.AddColumn(ColWeeklyAssign, func(i int) string { return strconv.Itoa(totals[weeks[i]]) })
	t.AddColumn(ColIsWeekend, func(i int) string { return boolInt(weekend[i]) })
	t.AddColumn(ColIsBreak, func(i int) string { return boolInt(slices.Contains(breakWeeks, weeks[i])) })
	return nil
}
