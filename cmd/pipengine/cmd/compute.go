package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rustyeddy/pipengine/config"
	"github.com/rustyeddy/pipengine/market"
	"github.com/rustyeddy/pipengine/metatrader"
	"github.com/rustyeddy/pipengine/metrics"
	"github.com/rustyeddy/pipengine/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Run the indicator pipeline over a bar series",
	Long: `Load bars from a CSV file (or MetaTrader when no file is configured),
run every configured indicator and print the most recent rows.

Examples:
  pipengine compute --file bars.csv
  pipengine compute -c pipengine.yaml --tail 20 --metrics-file run.prom`,
	RunE: runCompute,
}

var (
	computeFile            string
	computeTail            int
	computeMetricsFile     string
	computeParallel        bool
	computeContinueOnError bool
)

func init() {
	rootCmd.AddCommand(computeCmd)

	computeCmd.Flags().StringVarP(&computeFile, "file", "f", "", "CSV bar file (overrides source.file)")
	computeCmd.Flags().IntVarP(&computeTail, "tail", "n", 10, "number of trailing rows to print (0 for all)")
	computeCmd.Flags().StringVar(&computeMetricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	computeCmd.Flags().BoolVar(&computeParallel, "parallel", false, "compute indicators concurrently (overrides pipeline.parallel)")
	computeCmd.Flags().BoolVar(&computeContinueOnError, "continue-on-error", false, "keep going when an indicator fails (overrides pipeline.continue_on_error)")
}

func runCompute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if computeFile != "" {
		cfg.Source.File = computeFile
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Pipeline.Parallel = computeParallel
	}
	if cmd.Flags().Changed("continue-on-error") {
		cfg.Pipeline.ContinueOnError = computeContinueOnError
	}

	lg, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer lg.Sync()

	reg := pipeline.DefaultRegistry()
	reqs, err := cfg.Requests(reg)
	if err != nil {
		return fmt.Errorf("pipeline config: %w", err)
	}

	bars, err := loadBars(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	lg.Debug("bars loaded", zap.Int("count", len(bars)))

	promReg := prometheus.NewRegistry()
	opts := append(cfg.PipelineOptions(),
		pipeline.WithRegistry(reg),
		pipeline.WithLogger(lg.Logger),
		pipeline.WithMetrics(metrics.New(promReg)),
	)

	table, runErr := pipeline.New(opts...).Run(bars, reqs)
	if table != nil {
		if err := printResults(cmd.OutOrStdout(), table, computeTail); err != nil {
			return fmt.Errorf("print results: %w", err)
		}
	}

	if computeMetricsFile != "" {
		if err := prometheus.WriteToTextfile(computeMetricsFile, promReg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return runErr
}

// loadBars reads source.file when set, otherwise fetches source.symbol
// from MetaTrader.
func loadBars(ctx context.Context, cfg *config.Config) (market.Bars, error) {
	if cfg.Source.File != "" {
		bars, err := market.LoadCSVFile(cfg.Source.File)
		if err != nil {
			return nil, fmt.Errorf("load bars: %w", err)
		}
		return bars, nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	client := metatrader.NewClient(cfg.MetaTrader)
	bars, err := client.GetPriceHistory(ctx, metatrader.HistoryRequest{
		Symbol:    cfg.Source.Symbol,
		Timeframe: metatrader.Timeframe(cfg.Source.Timeframe),
		Count:     cfg.Source.Count,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	return bars, nil
}
