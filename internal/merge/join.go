package merge

import (
	"sort"

	"github.com/jgoulah/studytrack/internal/calendar"
	"github.com/jgoulah/studytrack/internal/table"
)

// joinLayout maps left and right columns onto the joined header. Non-key
// columns present on both sides get _x (left) and _y (right) suffixes.
type joinLayout struct {
	columns []string
	left    []int // output position of each left column
	right   []int // output position of each right column, -1 for the key
	keyPos  int
}

func newJoinLayout(left, right *table.Table, key string) joinLayout {
	inLeft := make(map[string]bool, len(left.Columns))
	for _, c := range left.Columns {
		inLeft[c] = true
	}
	inRight := make(map[string]bool, len(right.Columns))
	for _, c := range right.Columns {
		inRight[c] = true
	}

	var l joinLayout
	for _, c := range left.Columns {
		name := c
		if c != key && inRight[c] {
			name = c + "_x"
		}
		if c == key {
			l.keyPos = len(l.columns)
		}
		l.left = append(l.left, len(l.columns))
		l.columns = append(l.columns, name)
	}
	for _, c := range right.Columns {
		if c == key {
			l.right = append(l.right, -1)
			continue
		}
		name := c
		if inLeft[c] {
			name = c + "_y"
		}
		l.right = append(l.right, len(l.columns))
		l.columns = append(l.columns, name)
	}
	return l
}

// row builds an output row from optional left and right rows
func (l joinLayout) row(key string, left, right []string) []string {
	out := make([]string, len(l.columns))
	for i, v := range left {
		out[l.left[i]] = v
	}
	for i, v := range right {
		if pos := l.right[i]; pos >= 0 {
			out[pos] = v
		}
	}
	out[l.keyPos] = key
	return out
}

func groupByKey(t *table.Table, key string) map[string][]int {
	groups := make(map[string][]int)
	for i := range t.Rows {
		k := t.Get(i, key)
		groups[k] = append(groups[k], i)
	}
	return groups
}

// innerJoin keeps every left/right pairing with equal keys, in left order
func innerJoin(left, right *table.Table, key string) (*table.Table, error) {
	if err := left.Require(key); err != nil {
		return nil, err
	}
	if err := right.Require(key); err != nil {
		return nil, err
	}

	l := newJoinLayout(left, right, key)
	out := table.New(l.columns)
	groups := groupByKey(right, key)

	for i, lrow := range left.Rows {
		k := left.Get(i, key)
		for _, j := range groups[k] {
			out.Rows = append(out.Rows, l.row(k, lrow, right.Rows[j]))
		}
	}
	return out, nil
}

// outerJoin keeps every key from either side. Keys are emitted in day order;
// unmatched rows get empty values for the other side's columns.
func outerJoin(left, right *table.Table, key, layout string) (*table.Table, error) {
	if err := left.Require(key); err != nil {
		return nil, err
	}
	if err := right.Require(key); err != nil {
		return nil, err
	}

	l := newJoinLayout(left, right, key)
	out := table.New(l.columns)
	lg := groupByKey(left, key)
	rg := groupByKey(right, key)

	keys := make([]string, 0, len(lg)+len(rg))
	for k := range lg {
		keys = append(keys, k)
	}
	for k := range rg {
		if _, ok := lg[k]; !ok {
			keys = append(keys, k)
		}
	}
	sortDayKeys(keys, layout)

	for _, k := range keys {
		lrows, rrows := lg[k], rg[k]
		switch {
		case len(rrows) == 0:
			for _, i := range lrows {
				out.Rows = append(out.Rows, l.row(k, left.Rows[i], nil))
			}
		case len(lrows) == 0:
			for _, j := range rrows {
				out.Rows = append(out.Rows, l.row(k, nil, right.Rows[j]))
			}
		default:
			for _, i := range lrows {
				for _, j := range rrows {
					out.Rows = append(out.Rows, l.row(k, left.Rows[i], right.Rows[j]))
				}
			}
		}
	}
	return out, nil
}

// sortDayKeys orders keys chronologically. Keys that do not parse sort after
// valid ones, lexically.
func sortDayKeys(keys []string, layout string) {
	parsed := make(map[string]int64, len(keys))
	for _, k := range keys {
		if d, err := calendar.ParseDayKey(k, layout); err == nil {
			parsed[k] = d.Unix()
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, aok := parsed[keys[i]]
		b, bok := parsed[keys[j]]
		switch {
		case aok && bok && a != b:
			return a < b
		case aok != bok:
			return aok
		default:
			return keys[i] < keys[j]
		}
	})
}
