package cli

import (
	"github.com/spf13/cobra"

	"github.com/mwhsu/dataferry/internal/bq"
)

// newBqEstimateCmd creates the bq estimate command. It dry-runs a query and
// reports the bytes it would process without running it.
func newBqEstimateCmd() *cobra.Command {
	var (
		sql  string
		file string
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Dry-run a query and report the bytes it would process",
		Example: `  # Estimate an inline query
  dataferry bq estimate --sql "SELECT * FROM dataset.events"

  # Estimate a workspace script
  dataferry bq estimate --file daily_events.sql`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFromCmd(cmd)

			layout, err := cfg.Layout()
			if err != nil {
				return finishErr(ctx, err)
			}
			query, err := resolveSQL(layout, sql, file)
			if err != nil {
				return finishErr(ctx, err)
			}

			client, err := bq.NewClient(ctx, cfg.BigQuery.Project, cfg.Workspace.Credentials)
			if err != nil {
				return finishErr(ctx, err)
			}
			defer client.Close()

			bytes, err := client.Estimate(ctx, query)
			if err != nil {
				return finishErr(ctx, err)
			}

			cmd.Printf("This query will process %s.\n", bq.FormatBytes(bytes))
			return nil
		},
	}

	cmd.Flags().StringVar(&sql, "sql", "", "inline SQL query text")
	cmd.Flags().StringVar(&file, "file", "", "SQL script, relative to the workspace queries directory")

	return cmd
}
