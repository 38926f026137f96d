package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwhsu/dataferry/internal/artifact"
	"github.com/mwhsu/dataferry/internal/frame"
)

// newArtifactCmd groups the artifact subcommands.
func newArtifactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifact",
		Short: "Inspect artifacts saved in the workspace models directory",
	}

	cmd.AddCommand(newArtifactShowCmd())
	return cmd
}

// newArtifactShowCmd creates the artifact show command. It loads a query
// result saved with `bq run --artifact` and prints it as CSV. The codec is
// inferred from the stored file's extension.
func newArtifactShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a saved query-result artifact as CSV",
		Args:  cobra.ExactArgs(1),
		Example: `  dataferry bq run --file features.sql --artifact features --yes
  dataferry artifact show features`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromCmd(cmd)
			name := args[0]

			layout, err := cfg.Layout()
			if err != nil {
				return finishErr(ctx, err)
			}

			store := artifact.NewStore(layout.ModelsDir())
			if !store.Exists(name) {
				return finishErr(ctx, fmt.Errorf("%w: %s", artifact.ErrNotFound, name))
			}

			var result queryArtifact
			if err := store.Load(name, &result); err != nil {
				return finishErr(ctx, err)
			}

			table, err := frame.NewWithRows(result.Header, result.Rows)
			if err != nil {
				return finishErr(ctx, err)
			}
			return finishErr(ctx, frame.WriteCSV(table, cmd.OutOrStdout()))
		},
	}
}
