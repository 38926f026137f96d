package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mwhsu/dataferry/internal/artifact"
	"github.com/mwhsu/dataferry/internal/bq"
	"github.com/mwhsu/dataferry/internal/config"
	"github.com/mwhsu/dataferry/internal/frame"
)

// prettyPrecision is the decimal precision used by --pretty output.
const prettyPrecision = 2

// bqRunParams holds the flag values for bq run.
type bqRunParams struct {
	sql            string
	file           string
	params         []string
	columns        []string
	excludeColumns []string
	save           string
	artifactName   string
	codec          string
	pretty         bool
	yes            bool
	noCache        bool
	cacheTTL       int
}

// queryArtifact is the serializable form of a query result saved as a named
// artifact.
type queryArtifact struct {
	Header []string
	Rows   [][]string
}

// newBqRunCmd creates the bq run command. It estimates the query first and
// asks for confirmation before spending the bytes, serves repeated queries
// from the local result cache, and writes the result to stdout, a CSV file,
// or a named artifact.
func newBqRunCmd() *cobra.Command {
	var p bqRunParams

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a query and output the result table",
		Long: `Runs a query and prints the result as CSV, or saves it with --save
or --artifact.

Before running, the query is dry-run and you are asked to confirm the bytes
it will process; --yes skips the prompt. Results are cached locally keyed on
the query text and parameters, so re-running an unchanged query is free.`,
		Example: `  # Run a workspace script with a parameter and save the result
  dataferry bq run --file revenue.sql --param month=2026-08 --save revenue.csv

  # Run without prompting and bypass the cache
  dataferry bq run --sql "SELECT 1 AS one" --yes --no-cache

  # Keep the result as a named artifact in the models directory
  dataferry bq run --file features.sql --artifact features --codec gob --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBqRun(cmd, p)
		},
	}

	cmd.Flags().StringVar(&p.sql, "sql", "", "inline SQL query text")
	cmd.Flags().StringVar(&p.file, "file", "", "SQL script, relative to the workspace queries directory")
	cmd.Flags().StringArrayVar(&p.params, "param", nil, "query parameter as name=value (repeatable)")
	cmd.Flags().StringSliceVar(&p.columns, "columns", nil, "keep only these result columns, in schema order")
	cmd.Flags().StringSliceVar(&p.excludeColumns, "exclude-columns", nil, "drop these result columns")
	cmd.Flags().BoolVar(&p.pretty, "pretty", false, "render numeric stdout cells with thousand separators")
	cmd.Flags().StringVar(&p.save, "save", "", "write CSV here, relative to the workspace data directory")
	cmd.Flags().StringVar(&p.artifactName, "artifact", "", "save the result as a named artifact in the models directory")
	cmd.Flags().StringVar(&p.codec, "codec", "json", "artifact codec: gob or json")
	cmd.Flags().BoolVar(&p.yes, "yes", false, "run without the cost confirmation prompt")
	cmd.Flags().BoolVar(&p.noCache, "no-cache", false, "bypass the local result cache")
	cmd.Flags().IntVar(&p.cacheTTL, "cache-ttl", 0, "cache TTL in seconds (0 = config default)")

	return cmd
}

func runBqRun(cmd *cobra.Command, p bqRunParams) error {
	ctx := cmd.Context()
	cfg := configFromCmd(cmd)
	log := zerolog.Ctx(ctx)

	layout, err := cfg.Layout()
	if err != nil {
		return finishErr(ctx, err)
	}
	query, err := resolveSQL(layout, p.sql, p.file)
	if err != nil {
		return finishErr(ctx, err)
	}
	params, err := bq.ParseParams(p.params)
	if err != nil {
		return finishErr(ctx, err)
	}

	codec, err := artifact.ParseCodec(p.codec)
	if err != nil && p.artifactName != "" {
		return finishErr(ctx, err)
	}

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	if p.cacheTTL > 0 {
		ttl = time.Duration(p.cacheTTL) * time.Second
	}
	store, err := bq.NewFileStore(cfg.CacheDir(), cfg.Cache.Enabled && !p.noCache, ttl)
	if err != nil {
		return finishErr(ctx, err)
	}

	key := bq.GenerateKey(query, params)
	table, err := store.Get(key)
	if err == nil {
		log.Info().Str("key", key).Msg("serving query result from cache")
	} else {
		table, err = estimateAndRun(cmd, cfg, query, params, p.yes)
		if err != nil || table == nil {
			return finishErr(ctx, err)
		}
		cacheResult(ctx, store, key, table)
	}

	if len(p.columns) > 0 || len(p.excludeColumns) > 0 {
		table, err = frame.SelectColumns(table, p.columns, p.excludeColumns)
		if err != nil {
			return finishErr(ctx, err)
		}
	}

	return finishErr(ctx, writeResult(cmd, layout, table, p, codec))
}

// cacheResult stores a fresh query result when the cache is active. A
// disabled store is left alone rather than warned about on every run.
func cacheResult(ctx context.Context, store *bq.FileStore, key string, table *frame.Table) {
	if !store.Enabled() {
		return
	}
	if err := store.Set(key, table); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("could not cache query result")
	}
}

// estimateAndRun dry-runs the query, asks the user to confirm the cost, and
// executes it. A nil table with nil error means the user declined.
func estimateAndRun(cmd *cobra.Command, cfg *config.Config, query string, params []bq.Param, yes bool) (*frame.Table, error) {
	ctx := cmd.Context()

	client, err := bq.NewClient(ctx, cfg.BigQuery.Project, cfg.Workspace.Credentials)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	bytes, err := client.Estimate(ctx, query)
	if err != nil {
		return nil, err
	}
	cmd.Printf("This query will process %s.\n", bq.FormatBytes(bytes))

	if !yes {
		result := Confirm(cmd.OutOrStdout(), cmd.InOrStdin(), "Run this query?", false)
		if !result.Accepted {
			cmd.Println("Aborted.")
			return nil, nil
		}
	}

	return client.Run(ctx, query, params)
}

// writeResult delivers the result table to every requested destination, or
// to stdout as CSV when none was requested.
func writeResult(cmd *cobra.Command, layout config.Layout, table *frame.Table, p bqRunParams, codec artifact.Codec) error {
	if p.save != "" {
		savePath := layout.ResolveData(p.save)
		if err := frame.WriteCSVFile(table, savePath); err != nil {
			return err
		}
		cmd.Printf("Saved %s rows to %s\n", frame.FormatNumber(int64(table.NumRows())), savePath)
	}

	if p.artifactName != "" {
		store := artifact.NewStore(layout.ModelsDir())
		path, err := store.Save(p.artifactName, queryArtifact{Header: table.Header(), Rows: table.Rows()}, codec)
		if err != nil {
			return err
		}
		cmd.Printf("Saved artifact to %s\n", path)
	}

	if p.save == "" && p.artifactName == "" {
		if p.pretty {
			table = frame.FormatNumeric(table, prettyPrecision)
		}
		return frame.WriteCSV(table, cmd.OutOrStdout())
	}
	return nil
}
