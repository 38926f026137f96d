package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mwhsu/dataferry/internal/bq"
	"github.com/mwhsu/dataferry/internal/config"
)

// newBqCmd groups the BigQuery subcommands.
func newBqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bq",
		Short: "Estimate and run BigQuery queries",
	}

	cmd.AddCommand(newBqEstimateCmd(), newBqRunCmd())
	return cmd
}

// resolveSQL returns the query text from either the --sql flag or a script
// file resolved against the workspace queries directory.
func resolveSQL(layout config.Layout, sql, file string) (string, error) {
	switch {
	case sql != "" && file != "":
		return "", errors.New("--sql and --file are mutually exclusive")
	case sql != "":
		return sql, nil
	case file != "":
		return bq.LoadSQL(layout.ResolveQuery(file))
	default:
		return "", errors.New("one of --sql or --file is required")
	}
}
