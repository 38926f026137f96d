package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mwhsu/dataferry/internal/frame"
	"github.com/mwhsu/dataferry/internal/sheets"
	"github.com/mwhsu/dataferry/internal/tui"
)

// sheetPushParams holds the flag values for sheet push.
type sheetPushParams struct {
	spreadsheet    string
	worksheet      string
	source         string
	columns        []string
	excludeColumns []string
	batchSize      int
	dropUnused     bool
	noProgress     bool
}

// newSheetPushCmd creates the sheet push command. It uploads a CSV from the
// workspace data directory into a worksheet, creating the worksheet when it
// does not exist yet, and writing in batches on large tables.
func newSheetPushCmd() *cobra.Command {
	var p sheetPushParams

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload a CSV file to a worksheet",
		Long: `Uploads a table to a worksheet, replacing its previous contents.

The worksheet is resized to fit the table, cleared, and rewritten. Tables
larger than the batch size are written in paced chunks to stay under the
Sheets API write quota. The source path is resolved against the workspace
data directory unless absolute.`,
		Example: `  # Push a workspace CSV
  dataferry sheet push --spreadsheet 1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms --worksheet scores --source scores.csv

  # Push with smaller batches and trim leftover columns
  dataferry sheet push --spreadsheet <id> --worksheet scores --source scores.csv --batch-size 5000 --drop-unused-columns`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSheetPush(cmd, p)
		},
	}

	cmd.Flags().StringVar(&p.spreadsheet, "spreadsheet", "", "spreadsheet ID or URL (required)")
	cmd.Flags().StringVar(&p.worksheet, "worksheet", "", "worksheet title (required)")
	cmd.Flags().StringVar(&p.source, "source", "", "CSV file to upload, relative to the workspace data directory")
	cmd.Flags().StringSliceVar(&p.columns, "columns", nil, "upload only these columns, in source order")
	cmd.Flags().StringSliceVar(&p.excludeColumns, "exclude-columns", nil, "leave these columns out of the upload")
	cmd.Flags().IntVar(&p.batchSize, "batch-size", 0, "rows per write call (0 = config default)")
	cmd.Flags().BoolVar(&p.dropUnused, "drop-unused-columns", false, "shrink the worksheet to the table's column count")
	cmd.Flags().BoolVar(&p.noProgress, "no-progress", false, "disable the interactive progress bar")
	_ = cmd.MarkFlagRequired("spreadsheet")
	_ = cmd.MarkFlagRequired("worksheet")

	return cmd
}

func runSheetPush(cmd *cobra.Command, p sheetPushParams) error {
	ctx := cmd.Context()
	cfg := configFromCmd(cmd)

	layout, err := cfg.Layout()
	if err != nil {
		return finishErr(ctx, err)
	}

	batchSize := p.batchSize
	if batchSize == 0 {
		batchSize = cfg.Sheets.BatchSize
	}
	pause := time.Duration(cfg.Sheets.PauseMillis) * time.Millisecond
	syncer, err := sheets.NewSyncer(batchSize, pause)
	if err != nil {
		return finishErr(ctx, err)
	}

	req := sheets.PushRequest{WorksheetTitle: p.worksheet}
	if p.source != "" {
		req.SourcePath = layout.ResolveData(p.source)
	}
	if len(p.columns) > 0 || len(p.excludeColumns) > 0 {
		table, loadErr := loadColumnSubset(req.SourcePath, p.columns, p.excludeColumns)
		if loadErr != nil {
			return finishErr(ctx, loadErr)
		}
		req.Table = table
	}
	opts := sheets.Options{DropUnusedColumns: p.dropUnused}

	client, err := sheets.NewClient(ctx, cfg.Workspace.Credentials)
	if err != nil {
		return finishErr(ctx, err)
	}
	sp, err := client.Open(ctx, p.spreadsheet)
	if err != nil {
		return finishErr(ctx, err)
	}

	var report *sheets.Report
	if tui.IsTTY() && !p.noProgress {
		report, err = pushWithProgressBar(ctx, sp, syncer, req, opts)
	} else {
		log := zerolog.Ctx(ctx)
		syncer = syncer.WithProgress(func(prog sheets.Progress) {
			log.Info().
				Int("batch", prog.Batch).
				Int("total_batches", prog.TotalBatches).
				Int("rows_written", prog.RowsWritten).
				Msg("batch written")
		})
		report, err = sheets.Push(ctx, sp, syncer, req, opts)
	}
	if err != nil {
		return finishErr(ctx, err)
	}

	cmd.Println(tui.RenderPushSummary(p.worksheet, report))
	return nil
}

// loadColumnSubset reads the source CSV and narrows it to the requested
// columns. Column selection needs the table in memory, so the same sentinel
// checks Push would make on the path happen here instead.
func loadColumnSubset(sourcePath string, include, exclude []string) (*frame.Table, error) {
	if sourcePath == "" {
		return nil, sheets.ErrMissingInput
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return nil, fmt.Errorf("%w: %s", sheets.ErrSourceNotFound, sourcePath)
	}

	table, err := frame.ReadCSVFile(sourcePath)
	if err != nil {
		return nil, err
	}
	return frame.SelectColumns(table, include, exclude)
}

// pushWithProgressBar runs the push in the background while a bubbletea
// program renders batch progress in the foreground.
func pushWithProgressBar(
	ctx context.Context,
	sp sheets.Spreadsheet,
	syncer *sheets.Syncer,
	req sheets.PushRequest,
	opts sheets.Options,
) (*sheets.Report, error) {
	prog := tea.NewProgram(tui.NewPushModel(req.WorksheetTitle))
	syncer = syncer.WithProgress(func(p sheets.Progress) {
		prog.Send(tui.BatchMsg(p))
	})

	var (
		report  *sheets.Report
		pushErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		report, pushErr = sheets.Push(ctx, sp, syncer, req, opts)
		prog.Send(tui.DoneMsg{Err: pushErr})
	}()

	if _, err := prog.Run(); err != nil {
		return nil, fmt.Errorf("progress display failed: %w", err)
	}
	<-done
	return report, pushErr
}
