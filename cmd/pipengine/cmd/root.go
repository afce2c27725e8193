package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/pipengine/config"
	"github.com/rustyeddy/pipengine/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pipengine",
	Short: "Compute technical indicators over OHLCV bars",
	Long: `Pipengine turns an ordered OHLCV bar series into technical indicator
series through a deterministic pipeline.

It provides tools for:
  - Computing EMA, DEMA, ATR, Impulse MACD, Zero-Lag MACD, Williams
    Fractal Trailing Stops, Supertrend and Parabolic SAR
  - Loading bars from CSV files or the MetaTrader REST API
  - Managing pipeline configuration files

Secrets can be kept in a .env file (METATRADER_API_KEY, METATRADER_BASE_URL).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
}

var (
	cfgFile  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
}

// loadConfig reads --config, or the defaults, and applies environment and
// flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	lg, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return lg, nil
}
