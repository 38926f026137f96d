package sheets

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/mwhsu/dataferry/internal/frame"
)

// Initial extents for a freshly created worksheet, matching the remote
// provider's defaults for a new tab.
const (
	newWorksheetRows = 1000
	newWorksheetCols = 26
)

// PushRequest describes one push of tabular data to a worksheet. Exactly one
// of Table and SourcePath must be set; an in-memory table wins when both
// are given.
type PushRequest struct {
	// WorksheetTitle is the destination tab. It is created when missing.
	WorksheetTitle string

	// Table is the in-memory dataset to push.
	Table *frame.Table

	// SourcePath is a CSV file to push, already resolved to a full path
	// (callers resolve relative paths against the workspace data
	// directory).
	SourcePath string
}

// resolve returns the table to push, loading the CSV source when no
// in-memory table was given. Validation failures are sentinel errors and
// happen before any remote call.
func (r PushRequest) resolve() (*frame.Table, error) {
	if r.Table != nil {
		return r.Table, nil
	}
	if r.SourcePath == "" {
		return nil, ErrMissingInput
	}
	if _, err := os.Stat(r.SourcePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, r.SourcePath)
	}
	return frame.ReadCSVFile(r.SourcePath)
}

// Push syncs a dataset into the named worksheet of sp, creating the
// worksheet when it does not exist yet. Validation errors (ErrMissingInput,
// ErrSourceNotFound) are returned before the spreadsheet is touched; remote
// failures propagate wrapped.
func Push(ctx context.Context, sp Spreadsheet, syncer *Syncer, req PushRequest, opts Options) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	table, err := req.resolve()
	if err != nil {
		return nil, err
	}

	titles, err := sp.WorksheetTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing worksheets: %w", err)
	}

	var ws Worksheet
	if slices.Contains(titles, req.WorksheetTitle) {
		logger.Info().Str("worksheet", req.WorksheetTitle).Msg("using existing worksheet")
		ws, err = sp.Worksheet(ctx, req.WorksheetTitle)
	} else {
		logger.Info().Str("worksheet", req.WorksheetTitle).Msg("worksheet missing, creating it")
		ws, err = sp.AddWorksheet(ctx, req.WorksheetTitle, newWorksheetRows, newWorksheetCols)
	}
	if err != nil {
		return nil, fmt.Errorf("opening worksheet %q: %w", req.WorksheetTitle, err)
	}

	return syncer.Sync(ctx, ws, table, opts)
}

// PullOptions control post-processing of a downloaded worksheet.
type PullOptions struct {
	// SavePath, when set, writes the downloaded table as CSV to this
	// already-resolved path.
	SavePath string
}

// Pull downloads the named worksheet as a table. Cells are scrubbed of
// invisible characters; the first populated row becomes the header and
// short rows are padded to the header width (the remote API omits trailing
// empty cells).
func Pull(ctx context.Context, sp Spreadsheet, title string, opts PullOptions) (*frame.Table, error) {
	logger := zerolog.Ctx(ctx)

	titles, err := sp.WorksheetTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing worksheets: %w", err)
	}
	if !slices.Contains(titles, title) {
		return nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, title)
	}

	ws, err := sp.Worksheet(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("opening worksheet %q: %w", title, err)
	}

	values, err := ws.Values(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", title, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("worksheet %q: %w", title, frame.ErrEmptyHeader)
	}

	table, err := frame.New(values[0])
	if err != nil {
		return nil, err
	}
	width := table.NumCols()
	for _, row := range values[1:] {
		padded := row
		if len(row) < width {
			padded = make([]string, width)
			copy(padded, row)
		} else if len(row) > width {
			padded = row[:width]
		}
		if appendErr := table.AppendRow(padded); appendErr != nil {
			return nil, appendErr
		}
	}

	table = frame.Scrub(table)

	if opts.SavePath != "" {
		if err := frame.WriteCSVFile(table, opts.SavePath); err != nil {
			return nil, err
		}
		logger.Info().Str("path", opts.SavePath).Int("rows", table.NumRows()).Msg("worksheet saved")
	}

	return table, nil
}
