package dataset

import (
	"fmt"
	"strings"
)

// Table is the in-memory form of one loaded dataset: ordered column names
// and ordered rows of raw string cells. The empty string marks a missing
// value. Tables are built once by a reader and not mutated afterwards.
type Table struct {
	Name string
	Cols []string
	Rows [][]string

	index map[string]int
}

// NewTable builds a Table from a header and rows. Column names are trimmed
// and made unique: empty headers become column_N and repeated headers get a
// .N suffix. Rows shorter than the header are padded with empty cells and
// longer rows are truncated.
func NewTable(header []string, rows [][]string) *Table {
	cols := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		}
		if _, dup := seen[name]; !dup {
			seen[name] = 1
		}
		cols[i] = name
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) == len(cols) {
			out[i] = row
			continue
		}
		cells := make([]string, len(cols))
		copy(cells, row)
		out[i] = cells
	}

	t := &Table{Cols: cols, Rows: out, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		t.index[c] = i
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index != nil {
		i, ok := t.index[name]
		return i, ok
	}
	for i, c := range t.Cols {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Column returns all cells of the named column in row order, or nil when the
// column does not exist.
func (t *Table) Column(name string) []string {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return nil
	}
	out := make([]string, len(t.Rows))
	for j, row := range t.Rows {
		out[j] = row[i]
	}
	return out
}

// IsMissing reports whether a raw cell value represents a missing entry:
// blank or one of the usual null spellings carried over from dataframe
// exports.
func IsMissing(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "nan", "none", "null", "na", "n/a":
		return true
	}
	return false
}
