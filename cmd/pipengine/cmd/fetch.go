package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/pipengine/metatrader"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch price history from MetaTrader",
	Long: `Download bars from the MetaTrader REST API and print the most recent
ones. The API key and base URL come from the config file, or from
METATRADER_API_KEY / METATRADER_BASE_URL.

Examples:
  pipengine fetch --symbol XAUUSD --timeframe M5 --count 200
  pipengine fetch --symbol EURUSD --start 2024-01-01T00:00:00Z --end 2024-01-02T00:00:00Z
  pipengine fetch account`,
	RunE: runFetch,
}

var fetchAccountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the trading account summary",
	RunE:  runFetchAccount,
}

var fetchSymbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List tradable symbols",
	RunE:  runFetchSymbols,
}

var fetchTimeCmd = &cobra.Command{
	Use:   "time",
	Short: "Show the server clock",
	RunE:  runFetchTime,
}

var (
	fetchSymbol    string
	fetchTimeframe string
	fetchCount     int
	fetchStart     string
	fetchEnd       string
	fetchTail      int
)

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.AddCommand(fetchAccountCmd)
	fetchCmd.AddCommand(fetchSymbolsCmd)
	fetchCmd.AddCommand(fetchTimeCmd)

	fetchCmd.Flags().StringVarP(&fetchSymbol, "symbol", "s", "", "symbol (default: source.symbol)")
	fetchCmd.Flags().StringVarP(&fetchTimeframe, "timeframe", "t", "", "timeframe: M1, M5, M15, M30, H1, H4, D1, W1, MN1 (default: source.timeframe)")
	fetchCmd.Flags().IntVar(&fetchCount, "count", 0, "number of bars (default: source.count)")
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "start time (RFC3339)")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "end time (RFC3339)")
	fetchCmd.Flags().IntVarP(&fetchTail, "tail", "n", 20, "number of trailing bars to print (0 for all)")
}

func newMetaTraderClient() (*metatrader.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return metatrader.NewClient(cfg.MetaTrader), nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req := metatrader.HistoryRequest{
		Symbol:    cfg.Source.Symbol,
		Timeframe: metatrader.Timeframe(cfg.Source.Timeframe),
		Count:     cfg.Source.Count,
	}
	if fetchSymbol != "" {
		req.Symbol = fetchSymbol
	}
	if fetchTimeframe != "" {
		req.Timeframe = metatrader.Timeframe(fetchTimeframe)
	}
	if fetchCount > 0 {
		req.Count = fetchCount
	}
	if req.Start, err = parseTimeFlag(fetchStart); err != nil {
		return fmt.Errorf("--start: %w", err)
	}
	if req.End, err = parseTimeFlag(fetchEnd); err != nil {
		return fmt.Errorf("--end: %w", err)
	}
	if req.Start != nil || req.End != nil {
		req.Count = fetchCount
	}

	bars, err := metatrader.NewClient(cfg.MetaTrader).GetPriceHistory(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s: %d bars\n", req.Symbol, req.Timeframe, len(bars))
	if len(bars) == 0 {
		return nil
	}
	return printBars(out, bars, fetchTail)
}

func runFetchAccount(cmd *cobra.Command, args []string) error {
	client, err := newMetaTraderClient()
	if err != nil {
		return err
	}
	info, err := client.GetAccountInfo(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Account %d (%s, %s)\n", info.Login, info.Name, info.Server)
	fmt.Fprintf(out, "  Balance:     %s %s\n", info.Balance.StringFixed(2), info.Currency)
	fmt.Fprintf(out, "  Equity:      %s %s\n", info.Equity.StringFixed(2), info.Currency)
	fmt.Fprintf(out, "  Margin:      %s %s\n", info.Margin.StringFixed(2), info.Currency)
	fmt.Fprintf(out, "  Free margin: %s %s\n", info.FreeMargin.StringFixed(2), info.Currency)
	fmt.Fprintf(out, "  Leverage:    1:%d\n", info.Leverage)
	return nil
}

func runFetchSymbols(cmd *cobra.Command, args []string) error {
	client, err := newMetaTraderClient()
	if err != nil {
		return err
	}
	symbols, err := client.GetSymbols(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(symbols))
	for _, s := range symbols {
		rows = append(rows, []string{
			s.Name,
			s.Description,
			fmt.Sprint(s.Digits),
			s.ContractSize.String(),
			s.VolumeMin.String() + " - " + s.VolumeMax.String(),
			s.VolumeStep.String(),
		})
	}
	return renderTable(cmd.OutOrStdout(), []string{"symbol", "description", "digits", "contract", "volume", "step"}, rows)
}

func runFetchTime(cmd *cobra.Command, args []string) error {
	client, err := newMetaTraderClient()
	if err != nil {
		return err
	}
	ts, err := client.GetServerTime(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Server time: %s (local offset %s)\n",
		ts.Format(time.RFC3339Nano), time.Until(ts).Round(time.Millisecond))
	return nil
}
