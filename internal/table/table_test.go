package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		columns  []string
		rows     int
		expectOK bool
	}{
		{
			name:     "header and rows",
			input:    "Date,Steps\n2024-01-01,\"12,345\"\n2024-01-02,100\n",
			columns:  []string{"Date", "Steps"},
			rows:     2,
			expectOK: true,
		},
		{
			name:     "blank lines skipped",
			input:    "Date,Steps\n2024-01-01,1\n,\n",
			columns:  []string{"Date", "Steps"},
			rows:     1,
			expectOK: true,
		},
		{
			name:     "byte order mark stripped",
			input:    "\ufeffDate,Steps\n2024-01-01,1\n",
			columns:  []string{"Date", "Steps"},
			rows:     1,
			expectOK: true,
		},
		{
			name:     "empty input",
			input:    "",
			expectOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ReadCSV(strings.NewReader(tt.input))
			if !tt.expectOK {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.columns, tbl.Columns)
			assert.Equal(t, tt.rows, tbl.Len())
		})
	}
}

func TestShortRowsArePadded(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("SUMMARY,DUE\nMidterm\n"))
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "Midterm", tbl.Get(0, "SUMMARY"))
	assert.Equal(t, "", tbl.Get(0, "DUE"))
}

func TestRequire(t *testing.T) {
	tbl := New([]string{"Start Time", "End Time"})
	assert.NoError(t, tbl.Require("Start Time", "End Time"))

	err := tbl.Require("Start Time", "Minutes Asleep")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "Minutes Asleep")
}

func TestDropAndFilter(t *testing.T) {
	tbl := New([]string{"Date", "Floors", "Steps"})
	tbl.Append([]string{"01/01/24", "0", "10"})
	tbl.Append([]string{"01/02/24", "0", ""})

	dropped := tbl.Drop("Date", "Floors", "weeknum")
	assert.Equal(t, []string{"Steps"}, dropped.Columns)
	assert.Equal(t, [][]string{{"10"}, {""}}, dropped.Rows)

	filtered := tbl.Filter(func(i int) bool { return tbl.Get(i, "Steps") != "" })
	require.Equal(t, 1, filtered.Len())
	assert.Equal(t, "01/01/24", filtered.Get(0, "Date"))

	// source table untouched
	assert.Equal(t, 2, tbl.Len())
	assert.Len(t, tbl.Columns, 3)
}

func TestAddColumn(t *testing.T) {
	tbl := New([]string{"Date"})
	tbl.Append([]string{"a"})
	tbl.Append([]string{"b"})

	tbl.AddColumn("Upper", func(i int) string { return strings.ToUpper(tbl.Get(i, "Date")) })

	assert.True(t, tbl.Has("Upper"))
	assert.Equal(t, "B", tbl.Get(1, "Upper"))
	require.NoError(t, tbl.Set(0, "Upper", "z"))
	assert.Equal(t, "z", tbl.Get(0, "Upper"))
}

func TestWriteCSV(t *testing.T) {
	tbl := New([]string{"Datetime", "Asleep", "Time Offset"})
	tbl.Append([]string{"2024-01-01 23:00:00", "0", "1"})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.Equal(t, "Datetime,Asleep,Time Offset\n2024-01-01 23:00:00,0,1\n", buf.String())
}

func TestFileRoundTrip(t *testing.T) {
	tbl := New([]string{"Date", "Steps"})
	tbl.Append([]string{"01/01/24", "12,345"})
	tbl.Append([]string{"01/02/24", ""})

	for _, name := range []string{"out/table.csv", "out/table.xlsx"} {
		t.Run(filepath.Ext(name), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteFile(path, tbl))

			_, err := os.Stat(path)
			require.NoError(t, err)

			got, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tbl.Columns, got.Columns)
			require.Equal(t, 2, got.Len())
			assert.Equal(t, "12,345", got.Get(0, "Steps"))
			assert.Equal(t, "", got.Get(1, "Steps"))
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
