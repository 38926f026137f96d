package frame

import (
	"fmt"
	"strings"

	"github.com/mwhsu/dataferry/internal/seqs"
)

// SelectColumns returns a copy of t narrowed to the named columns. Columns
// keep their header order regardless of the order they were requested in.
// An empty include list means all columns; exclude is applied afterwards.
// Requesting a column the table does not have is an error.
func SelectColumns(t *Table, include, exclude []string) (*Table, error) {
	if missing := seqs.Difference(include, t.Header()); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrColumnUnknown, strings.Join(missing, ", "))
	}

	names := t.Header()
	if len(include) > 0 {
		names = seqs.Intersect(names, include)
	}
	names = seqs.Difference(names, exclude)
	if len(names) == 0 {
		return nil, ErrEmptyHeader
	}

	indices := make([]int, len(names))
	for i, name := range names {
		for j, h := range t.Header() {
			if h == name {
				indices[i] = j
				break
			}
		}
	}

	out := &Table{header: names, rows: make([][]string, 0, t.NumRows())}
	for _, row := range t.Rows() {
		cells := make([]string, len(indices))
		for i, j := range indices {
			cells[i] = row[j]
		}
		out.rows = append(out.rows, cells)
	}
	return out, nil
}
