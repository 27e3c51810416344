package merge

import (
	"strconv"
	"strings"

	"github.com/jgoulah/studytrack/internal/table"
)

// Category is the kind of work an assignment summary describes
type Category int

const (
	CategoryNone Category = iota
	CategoryHomework
	CategoryProject
	CategoryExam
)

func (c Category) String() string {
	switch c {
	case CategoryHomework:
		return ColHomework
	case CategoryProject:
		return ColProject
	case CategoryExam:
		return ColExam
	default:
		return "none"
	}
}

// Classify maps a free-text summary to a category. Exam wins over homework,
// which wins over project.
func Classify(summary string) Category {
	if summary == "" {
		return CategoryNone
	}
	txt := strings.ToLower(summary)
	txt = strings.ReplaceAll(txt, "assignment", "homework")
	txt = strings.ReplaceAll(txt, "test", "exam")

	switch {
	case strings.Contains(txt, "exam"):
		return CategoryExam
	case strings.Contains(txt, "homework"):
		return CategoryHomework
	case strings.Contains(txt, "project"):
		return CategoryProject
	default:
		return CategoryNone
	}
}

// Counts holds per-day assignment totals
type Counts struct {
	Homework int
	Project  int
	Exam     int
}

// Add records one assignment of category c
func (c *Counts) Add(cat Category) {
	switch cat {
	case CategoryHomework:
		c.Homework++
	case CategoryProject:
		c.Project++
	case CategoryExam:
		c.Exam++
	}
}

// Total returns homework + project + exam
func (c Counts) Total() int {
	return c.Homework + c.Project + c.Exam
}

// aggregateAssignments classifies every row's summary and sums the counts per
// day key. Every key in t appears in the result, with zero counts if none of
// its rows carry a recognizable summary.
func aggregateAssignments(t *table.Table) *table.Table {
	byKey := make(map[string]*Counts)
	var order []string
	for i := range t.Rows {
		k := t.Get(i, ColDate)
		if k == "" {
			continue
		}
		c, ok := byKey[k]
		if !ok {
			c = &Counts{}
			byKey[k] = c
			order = append(order, k)
		}
		c.Add(Classify(t.Get(i, ColSummary)))
	}

	out := table.New([]string{ColDate, ColHomework, ColProject, ColExam})
	for _, k := range order {
		c := byKey[k]
		out.Append([]string{
			k,
			strconv.Itoa(c.Homework),
			strconv.Itoa(c.Project),
			strconv.Itoa(c.Exam),
		})
	}
	return out
}
