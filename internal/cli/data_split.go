package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwhsu/dataferry/internal/frame"
	"github.com/mwhsu/dataferry/internal/sheets"
	"github.com/mwhsu/dataferry/internal/stats"
)

// newDataCmd groups the local dataset subcommands.
func newDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Work with CSV datasets in the workspace data directory",
	}

	cmd.AddCommand(newDataSplitCmd())
	return cmd
}

// dataSplitParams holds the flag values for data split.
type dataSplitParams struct {
	source       string
	replications int
	testRatio    float64
}

// newDataSplitCmd creates the data split command. It cuts a CSV into
// bootstrap train/test replications seeded from the workspace config, so
// repeated runs over the same dataset produce the same splits.
func newDataSplitCmd() *cobra.Command {
	var p dataSplitParams

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Cut a CSV into bootstrap train/test replications",
		Example: `  # One 75/25 split of a workspace CSV
  dataferry data split --source scores.csv

  # Three replications holding out 30% each
  dataferry data split --source scores.csv --replications 3 --test-ratio 0.3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDataSplit(cmd, p)
		},
	}

	cmd.Flags().StringVar(&p.source, "source", "", "CSV file to split, relative to the workspace data directory (required)")
	cmd.Flags().IntVar(&p.replications, "replications", 1, "number of independent train/test splits")
	cmd.Flags().Float64Var(&p.testRatio, "test-ratio", 0.25, "fraction of rows held out per split")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func runDataSplit(cmd *cobra.Command, p dataSplitParams) error {
	ctx := cmd.Context()
	cfg := configFromCmd(cmd)

	layout, err := cfg.Layout()
	if err != nil {
		return finishErr(ctx, err)
	}

	sourcePath := layout.ResolveData(p.source)
	if _, err := os.Stat(sourcePath); err != nil {
		return finishErr(ctx, fmt.Errorf("%w: %s", sheets.ErrSourceNotFound, sourcePath))
	}
	table, err := frame.ReadCSVFile(sourcePath)
	if err != nil {
		return finishErr(ctx, err)
	}

	rng := stats.NewRand(cfg.Workspace.Seed)
	splits, err := stats.BootstrapSplits(table.NumRows(), p.replications, p.testRatio, rng)
	if err != nil {
		return finishErr(ctx, err)
	}

	base := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	for i, split := range splits {
		trainPath := fmt.Sprintf("%s_train_%d.csv", base, i+1)
		testPath := fmt.Sprintf("%s_test_%d.csv", base, i+1)

		if err := writeRowSubset(table, split.Train, trainPath); err != nil {
			return finishErr(ctx, err)
		}
		if err := writeRowSubset(table, split.Test, testPath); err != nil {
			return finishErr(ctx, err)
		}

		cmd.Printf("Split %d: %d train rows -> %s, %d test rows -> %s\n",
			i+1, len(split.Train), trainPath, len(split.Test), testPath)
	}

	cmd.Printf("Seed: %d\n", cfg.Workspace.Seed)
	return nil
}

// writeRowSubset writes the rows of t at the given positions to a CSV file.
func writeRowSubset(t *frame.Table, indices []int, path string) error {
	rows := make([][]string, 0, len(indices))
	for _, i := range indices {
		row, err := t.Row(i)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	subset, err := frame.NewWithRows(t.Header(), rows)
	if err != nil {
		return err
	}
	return frame.WriteCSVFile(subset, path)
}
