// Package frame provides the in-memory tabular dataset that moves between
// CSV files, BigQuery results, and Google Sheets. A Table is an ordered
// header plus row-major string cells; rows keep stable 0-based positions so
// remote row ranges can be addressed from them.
package frame

import (
	"errors"
	"fmt"
)

// Common table errors.
var (
	ErrEmptyHeader   = errors.New("table header cannot be empty")
	ErrRaggedRow     = errors.New("row width does not match header width")
	ErrColumnUnknown = errors.New("column not found")
	ErrBadSlice      = errors.New("slice bounds out of range")
)

// Table is an ordered set of named columns with equal-length string cells.
// The zero value is not usable; construct with New or NewWithRows.
type Table struct {
	header []string
	rows   [][]string
}

// New creates an empty table with the given column names.
func New(header []string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrEmptyHeader
	}
	h := make([]string, len(header))
	copy(h, header)
	return &Table{header: h}, nil
}

// NewWithRows creates a table with the given header and rows. Every row must
// match the header width.
func NewWithRows(header []string, rows [][]string) (*Table, error) {
	t, err := New(header)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if appendErr := t.AppendRow(row); appendErr != nil {
			return nil, fmt.Errorf("row %d: %w", i, appendErr)
		}
	}
	return t, nil
}

// AppendRow adds a row to the table. The row is copied.
func (t *Table) AppendRow(row []string) error {
	if len(row) != len(t.header) {
		return fmt.Errorf("%w: got %d cells, want %d", ErrRaggedRow, len(row), len(t.header))
	}
	r := make([]string, len(row))
	copy(r, row)
	t.rows = append(t.rows, r)
	return nil
}

// NumRows returns the number of data rows (the header is not counted).
func (t *Table) NumRows() int { return len(t.rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.header) }

// Header returns the column names. The slice is shared; callers must not
// mutate it.
func (t *Table) Header() []string { return t.header }

// Rows returns all data rows. Rows are shared; callers must not mutate them.
func (t *Table) Rows() [][]string { return t.rows }

// Row returns the data row at the given 0-based position.
func (t *Table) Row(i int) ([]string, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrBadSlice, i, len(t.rows))
	}
	return t.rows[i], nil
}

// Column returns the cells of the named column in row order.
func (t *Table) Column(name string) ([]string, error) {
	idx := -1
	for i, h := range t.header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnUnknown, name)
	}
	col := make([]string, len(t.rows))
	for i, row := range t.rows {
		col[i] = row[idx]
	}
	return col, nil
}

// Slice returns a view over rows [lo, hi). The returned table shares the
// backing rows with the receiver; it is how the batch writer addresses
// contiguous chunks without copying.
func (t *Table) Slice(lo, hi int) (*Table, error) {
	if lo < 0 || hi < lo || hi > len(t.rows) {
		return nil, fmt.Errorf("%w: [%d,%d) of %d rows", ErrBadSlice, lo, hi, len(t.rows))
	}
	return &Table{header: t.header, rows: t.rows[lo:hi]}, nil
}

// Equal reports whether two tables have identical headers and cells.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.header) != len(other.header) || len(t.rows) != len(other.rows) {
		return false
	}
	for i := range t.header {
		if t.header[i] != other.header[i] {
			return false
		}
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			if t.rows[i][j] != other.rows[i][j] {
				return false
			}
		}
	}
	return true
}
