package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mwhsu/dataferry/internal/frame"
)

// fakeWorksheet is an in-memory Worksheet that records every remote call in
// order and keeps actual cell content so tests can assert on the final
// state, not just the call sequence.
type fakeWorksheet struct {
	title string
	rows  int
	cols  int

	// calls is the ordered log of operations, e.g. "resize(6,3)",
	// "clear", "update(A1)", "updateRange(A2:B20001)".
	calls []string

	// content maps "row,col" (1-indexed) to the written cell value.
	content map[string]string

	// errOn makes the named operation fail: "resize", "clear", "update",
	// or a specific range label.
	errOn map[string]error
}

func newFakeWorksheet(title string, rows, cols int) *fakeWorksheet {
	return &fakeWorksheet{
		title:   title,
		rows:    rows,
		cols:    cols,
		content: make(map[string]string),
		errOn:   make(map[string]error),
	}
}

func (f *fakeWorksheet) Title() string { return f.title }
func (f *fakeWorksheet) Rows() int     { return f.rows }
func (f *fakeWorksheet) Cols() int     { return f.cols }

func (f *fakeWorksheet) Resize(_ context.Context, rows, cols int) error {
	f.calls = append(f.calls, fmt.Sprintf("resize(%d,%d)", rows, cols))
	if err := f.errOn["resize"]; err != nil {
		return err
	}
	f.rows = rows
	f.cols = cols
	return nil
}

func (f *fakeWorksheet) Clear(_ context.Context) error {
	f.calls = append(f.calls, "clear")
	if err := f.errOn["clear"]; err != nil {
		return err
	}
	f.content = make(map[string]string)
	return nil
}

func (f *fakeWorksheet) Update(_ context.Context, startCell string, values [][]string) error {
	f.calls = append(f.calls, fmt.Sprintf("update(%s)", startCell))
	if err := f.errOn["update"]; err != nil {
		return err
	}
	// Only A1 starts are issued by the syncer.
	f.write(1, values)
	return nil
}

func (f *fakeWorksheet) UpdateRange(_ context.Context, rangeLabel string, values [][]string) error {
	f.calls = append(f.calls, fmt.Sprintf("updateRange(%s)", rangeLabel))
	if err := f.errOn[rangeLabel]; err != nil {
		return err
	}
	startRow, err := parseStartRow(rangeLabel)
	if err != nil {
		return err
	}
	f.write(startRow, values)
	return nil
}

func (f *fakeWorksheet) Values(_ context.Context) ([][]string, error) {
	if err := f.errOn["values"]; err != nil {
		return nil, err
	}
	maxRow := 0
	for key := range f.content {
		parts := strings.SplitN(key, ",", 2)
		r, _ := strconv.Atoi(parts[0])
		if r > maxRow {
			maxRow = r
		}
	}
	out := make([][]string, maxRow)
	for r := 1; r <= maxRow; r++ {
		row := make([]string, f.cols)
		for c := 1; c <= f.cols; c++ {
			row[c-1] = f.content[fmt.Sprintf("%d,%d", r, c)]
		}
		out[r-1] = row
	}
	return out, nil
}

func (f *fakeWorksheet) write(startRow int, values [][]string) {
	for i, row := range values {
		for j, cell := range row {
			f.content[fmt.Sprintf("%d,%d", startRow+i, j+1)] = cell
		}
	}
}

// rangeCalls returns only the updateRange labels, in emission order.
func (f *fakeWorksheet) rangeCalls() []string {
	var labels []string
	for _, call := range f.calls {
		if strings.HasPrefix(call, "updateRange(") {
			labels = append(labels, strings.TrimSuffix(strings.TrimPrefix(call, "updateRange("), ")"))
		}
	}
	return labels
}

// cell returns the content at 1-indexed row/col.
func (f *fakeWorksheet) cell(row, col int) string {
	return f.content[fmt.Sprintf("%d,%d", row, col)]
}

func parseStartRow(label string) (int, error) {
	// Labels have the form "A{start}:{letter}{end}".
	colon := strings.IndexByte(label, ':')
	if colon < 0 || !strings.HasPrefix(label, "A") {
		return 0, fmt.Errorf("malformed range label %q", label)
	}
	return strconv.Atoi(label[1:colon])
}

// fakeSpreadsheet is an in-memory Spreadsheet holding fake worksheets.
type fakeSpreadsheet struct {
	worksheets []*fakeWorksheet

	titlesErr error
	addErr    error

	// added records titles created through AddWorksheet.
	added []string
}

func (f *fakeSpreadsheet) WorksheetTitles(_ context.Context) ([]string, error) {
	if f.titlesErr != nil {
		return nil, f.titlesErr
	}
	titles := make([]string, len(f.worksheets))
	for i, ws := range f.worksheets {
		titles[i] = ws.title
	}
	return titles, nil
}

func (f *fakeSpreadsheet) Worksheet(_ context.Context, title string) (Worksheet, error) {
	for _, ws := range f.worksheets {
		if ws.title == title {
			return ws, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, title)
}

func (f *fakeSpreadsheet) AddWorksheet(_ context.Context, title string, rows, cols int) (Worksheet, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	ws := newFakeWorksheet(title, rows, cols)
	f.worksheets = append(f.worksheets, ws)
	f.added = append(f.added, title)
	return ws, nil
}

// tableOfSize builds a table with the given shape and addressable cell
// content ("r{row}c{col}").
func tableOfSize(rows, cols int) *frame.Table {
	header := make([]string, cols)
	for c := range cols {
		header[c] = fmt.Sprintf("col%d", c)
	}
	table, err := frame.New(header)
	if err != nil {
		panic(err)
	}
	row := make([]string, cols)
	for r := range rows {
		for c := range cols {
			row[c] = fmt.Sprintf("r%dc%d", r, c)
		}
		if err := table.AppendRow(row); err != nil {
			panic(err)
		}
	}
	return table
}
