package cmd

import (
	"fmt"

	"github.com/rustyeddy/pipengine/config"
	"github.com/rustyeddy/pipengine/pipeline"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage pipeline configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  pipengine config init -o pipengine.yaml
  pipengine config validate -f pipengine.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings.

Example:
  pipengine config init -o pipengine.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check that a configuration file loads and that every indicator
name and parameter is known to the registry.

Example:
  pipengine config validate -f pipengine.yaml`,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "pipengine.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  pipengine compute -c %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	reqs, err := cfg.Requests(pipeline.DefaultRegistry())
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", configValidatePath)
	if cfg.Source.File != "" {
		fmt.Fprintf(out, "  Source: %s\n", cfg.Source.File)
	} else {
		fmt.Fprintf(out, "  Source: MetaTrader %s %s (%d bars)\n", cfg.Source.Symbol, cfg.Source.Timeframe, cfg.Source.Count)
	}
	fmt.Fprintf(out, "  Indicators: %d (parallel: %t)\n", len(reqs), cfg.Pipeline.Parallel)
	for _, r := range reqs {
		fmt.Fprintf(out, "    %s: %s\n", r.Key(), r.Name)
	}
	return nil
}
