// Package cli wires the dataferry commands together. Each command constructor
// returns a cobra.Command; the effective configuration is resolved once in the
// root command's PersistentPreRunE and handed to subcommands through the
// command context.
package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mwhsu/dataferry/internal/artifact"
	"github.com/mwhsu/dataferry/internal/bq"
	"github.com/mwhsu/dataferry/internal/config"
	"github.com/mwhsu/dataferry/internal/frame"
	"github.com/mwhsu/dataferry/internal/logging"
	"github.com/mwhsu/dataferry/internal/sheets"
)

// configKey carries the resolved *config.Config in the command context.
type configKey struct{}

// configFromCmd returns the configuration resolved by the root command.
// Commands constructed through NewRootCmd always find one; the fallback to
// defaults only matters when a subcommand is executed standalone in tests.
func configFromCmd(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.New()
}

// NewRootCmd creates the root dataferry command.
func NewRootCmd(ver string) *cobra.Command {
	var (
		configPath  string
		workspace   string
		mode        string
		credentials string
		debug       bool
	)

	cmd := &cobra.Command{
		Use:     "dataferry",
		Short:   "Move tabular data between BigQuery, Google Sheets, and Cloud Storage",
		Long:    "dataferry runs BigQuery queries and ferries the results to Google Sheets, CSV files, and Cloud Storage buckets.",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Missing .env is the normal case outside a workspace checkout.
			_ = godotenv.Load()

			cfg, err := config.Load(configPath)
			if err != nil {
				// config init is allowed to name a file that does not
				// exist yet; it will create it.
				if cmd.Name() != "init" || !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				cfg = config.New()
				cfg.SetConfigPath(configPath)
			}
			if workspace != "" {
				cfg.Workspace.Root = workspace
			}
			if mode != "" {
				cfg.Workspace.Mode = mode
			}
			if credentials != "" {
				cfg.Workspace.Credentials = credentials
			}
			if _, err := cfg.Layout(); err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = setupLogging(ctx, cmd, cfg, debug)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.dataferry/config.yaml)")
	cmd.PersistentFlags().StringVar(&workspace, "workspace", "", "workspace root directory (overrides config)")
	cmd.PersistentFlags().StringVar(&mode, "mode", "", "workspace mode: local, gitlab, train, experiment, inference")
	cmd.PersistentFlags().StringVar(&credentials, "credentials", "", "service account key file (overrides config)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging to the console")

	cmd.AddCommand(newSheetCmd(), newBqCmd(), newGcsCmd(), newDataCmd(), newArtifactCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Push a CSV from the workspace data directory to a worksheet
  dataferry sheet push --spreadsheet 1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms --worksheet scores --source scores.csv

  # Estimate how much a query would scan, then run it
  dataferry bq estimate --file revenue.sql
  dataferry bq run --file revenue.sql --param month=2026-08 --save revenue.csv

  # Upload a model directory to a bucket
  dataferry gcs put --bucket ml-artifacts --dir models/v3 --prefix models/v3

  # Write the default configuration file
  dataferry config init`

// setupLogging builds the root logger from the configuration, attaches it and
// a trace ID to the context, and reports where logs are going.
func setupLogging(ctx context.Context, cmd *cobra.Command, cfg *config.Config, debug bool) context.Context {
	logCfg := logging.Config{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	}
	if logCfg.File != "" && !filepath.IsAbs(logCfg.File) {
		if layout, err := cfg.Layout(); err == nil {
			logCfg.File = filepath.Join(layout.LogDir(), logCfg.File)
		}
	}
	if debug {
		logCfg.Level = "debug"
		logCfg.File = ""
	}
	if logCfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(logCfg.File), 0o750); err != nil {
			cmd.PrintErrf("Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.New(logCfg)
	logger := logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		cmd.PrintErrf("Logging to %s\n", result.FilePath)
	} else if result.FallbackReason != "" {
		cmd.PrintErrf("Warning: %s, logging to stderr\n", result.FallbackReason)
	}

	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	logger = logger.With().Str("trace_id", traceID).Logger()
	ctx = logger.WithContext(ctx)

	logger.Debug().Str("command", cmd.Name()).Msg("command started")
	return ctx
}

// userErrors are validation failures caused by the invocation rather than by
// the system. They are logged as warnings, without a stack or retry noise.
var userErrors = []error{
	sheets.ErrMissingInput,
	sheets.ErrSourceNotFound,
	sheets.ErrWorksheetNotFound,
	sheets.ErrInvalidBatchSize,
	config.ErrInvalidMode,
	artifact.ErrInvalidCodec,
	artifact.ErrNotFound,
	bq.ErrInvalidParam,
	frame.ErrColumnUnknown,
}

// finishErr logs err at a severity matched to its kind and returns it
// unchanged for cobra to print. A nil err passes through.
func finishErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	log := zerolog.Ctx(ctx)
	for _, sentinel := range userErrors {
		if errors.Is(err, sentinel) {
			log.Warn().Msg(err.Error())
			return err
		}
	}
	log.Error().Err(err).Msg("command failed")
	return err
}
