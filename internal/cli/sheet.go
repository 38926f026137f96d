package cli

import (
	"github.com/spf13/cobra"
)

// newSheetCmd groups the Google Sheets subcommands.
func newSheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Push tables to and pull tables from Google Sheets",
	}

	cmd.AddCommand(newSheetPushCmd(), newSheetPullCmd())
	return cmd
}
