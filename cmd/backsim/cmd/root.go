package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backsim",
	Short: "An event-driven backtester with simulated execution",
	Long: `Backsim replays market observations through trading strategies and a
simulated exchange, with risk validation, portfolio accounting, and a
persistent audit trail.

It provides tools for:
  - Backtesting signal strategies against CSV or synthetic price data
  - Probabilistic fill simulation with slippage and partial fills
  - Pre-trade risk checks (capital, rate, and position limits)
  - CSV and SQLite order/equity journaling
  - Performance reports with equity-curve plots`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
