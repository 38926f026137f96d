package cli

import (
	"github.com/spf13/cobra"

	"github.com/mwhsu/dataferry/internal/frame"
	"github.com/mwhsu/dataferry/internal/sheets"
)

// sheetPullParams holds the flag values for sheet pull.
type sheetPullParams struct {
	spreadsheet string
	worksheet   string
	save        string
	pretty      bool
}

// newSheetPullCmd creates the sheet pull command. It downloads a worksheet,
// scrubs invisible characters out of the cells, and writes the result as CSV
// either to the workspace data directory or to stdout.
func newSheetPullCmd() *cobra.Command {
	var p sheetPullParams

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download a worksheet as CSV",
		Example: `  # Print a worksheet as CSV
  dataferry sheet pull --spreadsheet <id> --worksheet scores

  # Save into the workspace data directory
  dataferry sheet pull --spreadsheet <id> --worksheet scores --save scores.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSheetPull(cmd, p)
		},
	}

	cmd.Flags().StringVar(&p.spreadsheet, "spreadsheet", "", "spreadsheet ID or URL (required)")
	cmd.Flags().StringVar(&p.worksheet, "worksheet", "", "worksheet title (required)")
	cmd.Flags().StringVar(&p.save, "save", "", "write CSV here instead of stdout, relative to the workspace data directory")
	cmd.Flags().BoolVar(&p.pretty, "pretty", false, "render numeric stdout cells with thousand separators")
	_ = cmd.MarkFlagRequired("spreadsheet")
	_ = cmd.MarkFlagRequired("worksheet")

	return cmd
}

func runSheetPull(cmd *cobra.Command, p sheetPullParams) error {
	ctx := cmd.Context()
	cfg := configFromCmd(cmd)

	layout, err := cfg.Layout()
	if err != nil {
		return finishErr(ctx, err)
	}

	client, err := sheets.NewClient(ctx, cfg.Workspace.Credentials)
	if err != nil {
		return finishErr(ctx, err)
	}
	sp, err := client.Open(ctx, p.spreadsheet)
	if err != nil {
		return finishErr(ctx, err)
	}

	var opts sheets.PullOptions
	if p.save != "" {
		opts.SavePath = layout.ResolveData(p.save)
	}

	table, err := sheets.Pull(ctx, sp, p.worksheet, opts)
	if err != nil {
		return finishErr(ctx, err)
	}

	if p.save != "" {
		cmd.Printf("Saved %s rows to %s\n", frame.FormatNumber(int64(table.NumRows())), opts.SavePath)
		return nil
	}
	if p.pretty {
		table = frame.FormatNumeric(table, prettyPrecision)
	}
	return finishErr(ctx, frame.WriteCSV(table, cmd.OutOrStdout()))
}
