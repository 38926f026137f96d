package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newConfigCmd groups the configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize the dataferry configuration",
	}

	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())
	return cmd
}

// newConfigInitCmd creates the config init command. It writes the default
// configuration file and creates the workspace directory layout.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Example: `  # Create ~/.dataferry/config.yaml and the workspace directories
  dataferry config init

  # Overwrite an existing configuration file
  dataferry config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFromCmd(cmd)

			if !force {
				if _, err := os.Stat(cfg.ConfigPath()); err == nil {
					return finishErr(ctx, errors.New("configuration file already exists, use --force to overwrite"))
				} else if !os.IsNotExist(err) {
					return finishErr(ctx, fmt.Errorf("cannot access config path %s: %w", cfg.ConfigPath(), err))
				}
			}

			if err := cfg.Save(); err != nil {
				return finishErr(ctx, err)
			}

			layout, err := cfg.Layout()
			if err != nil {
				return finishErr(ctx, err)
			}
			if err := layout.EnsureDirs(); err != nil {
				return finishErr(ctx, err)
			}

			cmd.Printf("Configuration initialized at %s\n", cfg.ConfigPath())
			cmd.Printf("Workspace root: %s\n", layout.Root())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	return cmd
}

// newConfigShowCmd creates the config show command. It prints the effective
// configuration after defaults, file, environment, and flags are merged.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFromCmd(cmd)

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return finishErr(cmd.Context(), err)
			}

			cmd.Printf("# %s\n", cfg.ConfigPath())
			cmd.Print(string(data))
			return nil
		},
	}
}
