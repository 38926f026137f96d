package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mwhsu/dataferry/internal/frame"
)

// Default sync tuning.
const (
	// DefaultBatchSize is the maximum number of data rows per write call.
	DefaultBatchSize = 20000

	// DefaultPause is the pause between chunk writes. It exists to stay
	// under the remote API's per-second call quota; the value is a tunable
	// constant, not a measured backoff.
	DefaultPause = 100 * time.Millisecond
)

// ProgressFunc is invoked after each write completes.
type ProgressFunc func(p Progress)

// Progress describes sync progress after a completed write.
type Progress struct {
	Batch        int // 1-based index of the completed batch
	TotalBatches int
	RowsWritten  int // cumulative data rows written
	TotalRows    int
}

// Options control optional sync behavior.
type Options struct {
	// DropUnusedColumns trims the worksheet down to exactly the dataset's
	// column count after writing, when the worksheet is wider.
	DropUnusedColumns bool
}

// Report summarizes a completed sync.
type Report struct {
	Rows     int
	Cols     int
	Batches  int
	Resized  bool
	Trimmed  bool
	Duration time.Duration
}

// Syncer writes tables to worksheets in size-bounded batches. It is
// stateless across calls; one Syncer may serve many Sync invocations, but a
// single worksheet must not be synced from multiple goroutines at once.
type Syncer struct {
	batchSize int
	pause     time.Duration
	limiter   *rate.Limiter

	// onProgress is an optional callback for progress updates.
	onProgress ProgressFunc
}

// NewSyncer creates a Syncer. batchSize must be positive; pause is the
// inter-chunk pause and may be zero only for offline destinations that
// enforce no call quota.
func NewSyncer(batchSize int, pause time.Duration) (*Syncer, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}

	s := &Syncer{batchSize: batchSize, pause: pause}
	if pause > 0 {
		s.limiter = rate.NewLimiter(rate.Every(pause), 1)
	}
	return s, nil
}

// NewSyncerWithDefaults creates a Syncer with the default batch size and
// pause.
func NewSyncerWithDefaults() *Syncer {
	s, _ := NewSyncer(DefaultBatchSize, DefaultPause)
	return s
}

// WithProgress sets a progress callback for the syncer.
func (s *Syncer) WithProgress(fn ProgressFunc) *Syncer {
	s.onProgress = fn
	return s
}

// BatchSize returns the configured batch size.
func (s *Syncer) BatchSize() int { return s.batchSize }

// TotalBatches returns how many write calls Sync will issue for a dataset
// with the given row count: one single-shot write when it fits the batch
// size, otherwise one chunk per batchSize rows.
func (s *Syncer) TotalBatches(rows int) int {
	if rows <= s.batchSize {
		return 1
	}
	batches := rows / s.batchSize
	if rows%s.batchSize > 0 {
		batches++
	}
	return batches
}

// Sync writes the table to the worksheet so that it ends up containing
// exactly the table's header row plus its data rows.
//
// The pipeline is linear: ensure capacity, clear, write, optionally trim.
// Capacity grows per dimension to max(current, required) and never shrinks
// here; the worksheet is cleared unconditionally so stale content beyond the
// new data cannot remain visible; datasets of at most batchSize rows are
// written in one call starting at A1, larger ones get the header alone
// followed by contiguous row chunks in order. Remote errors propagate to the
// caller untouched; a chunked write that fails midway leaves the header and
// all prior chunks in place, and re-running the sync converges because of
// the unconditional clear.
func (s *Syncer) Sync(ctx context.Context, ws Worksheet, table *frame.Table, opts Options) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	started := time.Now()

	rows := table.NumRows()
	cols := table.NumCols()
	report := &Report{Rows: rows, Cols: cols}

	// Required capacity: header plus data rows.
	requiredRows := rows + 1
	requiredCols := cols

	if requiredRows > ws.Rows() || requiredCols > ws.Cols() {
		newRows := max(requiredRows, ws.Rows())
		newCols := max(requiredCols, ws.Cols())
		logger.Info().
			Str("worksheet", ws.Title()).
			Int("rows", newRows).
			Int("cols", newCols).
			Msg("resizing worksheet")
		if err := ws.Resize(ctx, newRows, newCols); err != nil {
			return nil, fmt.Errorf("resizing worksheet %q: %w", ws.Title(), err)
		}
		report.Resized = true
	}

	if err := ws.Clear(ctx); err != nil {
		return nil, fmt.Errorf("clearing worksheet %q: %w", ws.Title(), err)
	}

	if rows <= s.batchSize {
		if err := s.writeSingleShot(ctx, ws, table); err != nil {
			return nil, err
		}
		report.Batches = 1
	} else {
		batches, err := s.writeChunked(ctx, ws, table)
		if err != nil {
			return nil, err
		}
		report.Batches = batches
	}

	if opts.DropUnusedColumns && ws.Cols() > cols {
		logger.Info().
			Str("worksheet", ws.Title()).
			Int("cols", cols).
			Msg("trimming unused trailing columns")
		if err := ws.Resize(ctx, ws.Rows(), cols); err != nil {
			return nil, fmt.Errorf("trimming worksheet %q: %w", ws.Title(), err)
		}
		report.Trimmed = true
	}

	report.Duration = time.Since(started)
	logger.Info().
		Str("worksheet", ws.Title()).
		Int("rows", rows).
		Int("batches", report.Batches).
		Dur("duration", report.Duration).
		Msg("sync complete")
	return report, nil
}

// writeSingleShot writes the header and all data rows in one call at A1.
func (s *Syncer) writeSingleShot(ctx context.Context, ws Worksheet, table *frame.Table) error {
	values := make([][]string, 0, table.NumRows()+1)
	values = append(values, table.Header())
	values = append(values, table.Rows()...)

	if err := ws.Update(ctx, "A1", values); err != nil {
		return fmt.Errorf("writing worksheet %q: %w", ws.Title(), err)
	}
	s.notify(Progress{Batch: 1, TotalBatches: 1, RowsWritten: table.NumRows(), TotalRows: table.NumRows()})
	return nil
}

// writeChunked writes the header alone, then the data rows in contiguous
// chunks of at most batchSize rows, pacing chunk writes with the rate
// limiter.
func (s *Syncer) writeChunked(ctx context.Context, ws Worksheet, table *frame.Table) (int, error) {
	rows := table.NumRows()
	cols := table.NumCols()
	totalBatches := s.TotalBatches(rows)
	logger := zerolog.Ctx(ctx)

	logger.Info().
		Str("worksheet", ws.Title()).
		Int("rows", rows).
		Int("batches", totalBatches).
		Msg("dataset exceeds batch size, writing in chunks")

	if err := ws.Update(ctx, "A1", [][]string{table.Header()}); err != nil {
		return 0, fmt.Errorf("writing header to worksheet %q: %w", ws.Title(), err)
	}

	written := 0
	for batchIndex := range totalBatches {
		// The limiter grants the first chunk immediately and spaces the
		// rest one pause apart, honoring ctx cancellation while waiting.
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return batchIndex, err
			}
		} else {
			select {
			case <-ctx.Done():
				return batchIndex, ctx.Err()
			default:
			}
		}

		lo := batchIndex * s.batchSize
		hi := min(lo+s.batchSize, rows)

		chunk, err := table.Slice(lo, hi)
		if err != nil {
			return batchIndex, err
		}

		// Row 1 is the header, so data row lo lands on sheet row lo+2.
		startRow := lo + 2
		endRow := hi + 1
		label := RangeLabel(startRow, endRow, cols)

		logger.Debug().
			Int("batch", batchIndex+1).
			Str("range", label).
			Msg("writing chunk")

		if err := ws.UpdateRange(ctx, label, chunk.Rows()); err != nil {
			return batchIndex, fmt.Errorf("batch %d (%s) failed: %w", batchIndex+1, label, err)
		}

		written += hi - lo
		s.notify(Progress{
			Batch:        batchIndex + 1,
			TotalBatches: totalBatches,
			RowsWritten:  written,
			TotalRows:    rows,
		})
	}

	return totalBatches, nil
}

func (s *Syncer) notify(p Progress) {
	if s.onProgress != nil {
		s.onProgress(p)
	}
}
