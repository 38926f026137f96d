// Package sheets implements the batched spreadsheet writer: it ferries a
// frame.Table into a remote worksheet, resizing the worksheet to fit,
// clearing stale content, and chunking large datasets into bounded writes to
// stay under remote payload and quota limits.
package sheets

import (
	"context"
	"errors"
)

// Validation errors surfaced before any remote call is made.
var (
	// ErrMissingInput means neither an in-memory table nor a source path
	// was supplied.
	ErrMissingInput = errors.New("either a table or a source path must be provided")

	// ErrSourceNotFound means the source path does not resolve to an
	// existing file.
	ErrSourceNotFound = errors.New("source file not found")

	// ErrWorksheetNotFound means the named worksheet does not exist on the
	// spreadsheet.
	ErrWorksheetNotFound = errors.New("worksheet not found")

	// ErrInvalidBatchSize means the configured batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")
)

// Worksheet is a single spreadsheet tab with mutable grid extents. Writes
// address cells by A1-style ranges; row 1 is reserved for the header.
type Worksheet interface {
	// Title returns the worksheet's tab name.
	Title() string

	// Rows returns the currently allocated row capacity.
	Rows() int

	// Cols returns the currently allocated column capacity.
	Cols() int

	// Resize sets the grid extents to exactly rows x cols.
	Resize(ctx context.Context, rows, cols int) error

	// Clear removes all cell content, leaving the extents unchanged.
	Clear(ctx context.Context) error

	// Update writes a block of values with its top-left corner at
	// startCell (e.g. "A1").
	Update(ctx context.Context, startCell string, values [][]string) error

	// UpdateRange writes values into an explicit A1-style range label
	// (e.g. "A2:B20001").
	UpdateRange(ctx context.Context, rangeLabel string, values [][]string) error

	// Values reads all populated cells in row order.
	Values(ctx context.Context) ([][]string, error)
}

// Spreadsheet is a remote spreadsheet document owning named worksheets.
type Spreadsheet interface {
	// WorksheetTitles lists the tab names currently on the document.
	WorksheetTitles(ctx context.Context) ([]string, error)

	// Worksheet opens an existing tab by title.
	Worksheet(ctx context.Context, title string) (Worksheet, error)

	// AddWorksheet creates a new tab with the given extents.
	AddWorksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error)
}
