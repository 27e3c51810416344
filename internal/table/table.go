// Package table holds the ordered column/row representation shared by the
// pipelines and the CSV/xlsx readers and writers.
package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrMissingColumn is returned when a required column is absent
var ErrMissingColumn = errors.New("missing column")

// Table is an ordered set of string rows under a header. Missing values are
// empty strings.
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// New creates an empty table with the given header
func New(columns []string) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Has reports whether the column exists
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Index returns the position of a column
func (t *Table) Index(col string) (int, error) {
	i, ok := t.index[col]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrMissingColumn, col)
	}
	return i, nil
}

// Require checks that every named column exists
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if _, err := t.Index(c); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value of col in row i, or "" if the column is absent
func (t *Table) Get(i int, col string) string {
	j, ok := t.index[col]
	if !ok || j >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][j]
}

// Set writes the value of col in row i
func (t *Table) Set(i int, col, value string) error {
	j, err := t.Index(col)
	if err != nil {
		return err
	}
	t.Rows[i][j] = value
	return nil
}

// Append adds a row, padding or truncating it to the header width
func (t *Table) Append(values []string) {
	row := make([]string, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// AddColumn appends a column filled by fn for every existing row
func (t *Table) AddColumn(col string, fn func(i int) string) {
	t.Columns = append(t.Columns, col)
	t.reindex()
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], fn(i))
	}
}

// Drop returns a copy of the table without the named columns. Unknown
// columns are ignored.
func (t *Table) Drop(cols ...string) *Table {
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}

	var keep []int
	var header []string
	for i, c := range t.Columns {
		if drop[c] {
			continue
		}
		keep = append(keep, i)
		header = append(header, c)
	}

	out := New(header)
	out.Rows = make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		r := make([]string, len(keep))
		for k, i := range keep {
			r[k] = row[i]
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	return t.Filter(func(int) bool { return true })
}

// Filter returns a copy of the table holding only rows for which keep is true
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := New(t.Columns)
	for i, row := range t.Rows {
		if keep(i) {
			out.Rows = append(out.Rows, append([]string(nil), row...))
		}
	}
	return out
}

// isXLSX reports whether a path should be handled as an Excel workbook
func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// ReadFile loads a table from a .csv or .xlsx file
func ReadFile(path string) (*Table, error) {
	if isXLSX(path) {
		return ReadXLSX(path)
	}
	return ReadCSVFile(path)
}

// WriteFile saves a table to a .csv or .xlsx file
func WriteFile(path string, t *Table) error {
	if isXLSX(path) {
		return WriteXLSX(path, t)
	}
	return WriteCSVFile(path, t)
}

// fromRecords builds a table from a header row followed by data rows
func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New("no header row")
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	t := New(header)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		t.Append(rec)
	}
	return t, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
