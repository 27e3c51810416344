package merge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/jgoulah/studytrack/internal/table"
)

// clean drops helper columns and rows with no sleep session, then coerces
// thousands-separated numeric text ("12,345") to floats
func clean(t *table.Table, dropCols, numericCols []string) (*table.Table, error) {
	out := t.Filter(func(i int) bool { return t.Get(i, ColStartTime) != "" })
	out = out.Drop(dropCols...)

	for _, col := range numericCols {
		j, err := out.Index(col)
		if err != nil {
			return nil, err
		}
		for i, row := range out.Rows {
			if row[j] == "" {
				continue
			}
			f, err := parseNumber(row[j])
			if err != nil {
				return nil, fmt.Errorf("row %d: parsing %s: %w", i+1, col, err)
			}
			row[j] = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return out, nil
}

// parseNumber strips thousands separators and parses the remainder as a float
func parseNumber(s string) (float64, error) {
	return cast.ToFloat64E(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}
