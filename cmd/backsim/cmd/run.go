package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantlab/backsim/backtest"
	"github.com/quantlab/backsim/config"
	"github.com/quantlab/backsim/journal"
	"github.com/quantlab/backsim/market"
	"github.com/quantlab/backsim/portfolio"
	"github.com/quantlab/backsim/report"
	"github.com/quantlab/backsim/risk"
	"github.com/quantlab/backsim/sim"
	"github.com/quantlab/backsim/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest from price data",
	Long: `Run a full backtest: replay price observations through the configured
strategy, validate every candidate order, simulate execution, and journal
the audit trail and equity curve.

With -ticks the feed is a CSV file (time,symbol,price). Without it a
seeded synthetic random walk is generated.

Examples:
  backsim run -ticks data/aapl.csv
  backsim run -config backsim.yaml -report report.md
  backsim run -strategy momentum -n 5000 -seed 7`,
	RunE: runRun,
}

var (
	runConfigPath string
	runTicksPath  string
	runStrategy   string
	runReportPath string

	runSymbol   string
	runStart    float64
	runN        int
	runStddev   float64
	runFeedSeed int64
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML, TOML, or JSON)")
	runCmd.Flags().StringVarP(&runTicksPath, "ticks", "t", "", "path to price CSV (time,symbol,price)")
	runCmd.Flags().StringVarP(&runStrategy, "strategy", "s", "", "strategy name (noop, mac, momentum); overrides config")
	runCmd.Flags().StringVarP(&runReportPath, "report", "r", "", "write a markdown performance report to this path")

	runCmd.Flags().StringVar(&runSymbol, "symbol", "SYN", "synthetic feed: symbol")
	runCmd.Flags().Float64Var(&runStart, "start-price", 100.0, "synthetic feed: initial price")
	runCmd.Flags().IntVarP(&runN, "observations", "n", 10_000, "synthetic feed: number of observations")
	runCmd.Flags().Float64Var(&runStddev, "stddev", 0.5, "synthetic feed: per-step price stddev")
	runCmd.Flags().Int64Var(&runFeedSeed, "seed", 42, "synthetic feed: random seed")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if runConfigPath != "" {
		var err error
		cfg, err = config.LoadFromFile(runConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if runStrategy != "" {
		cfg.Strategy.Name = runStrategy
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("component", "backtest"))

	var feed market.Feed
	if runTicksPath != "" {
		f, err := market.NewCSVFeed(runTicksPath)
		if err != nil {
			return fmt.Errorf("open ticks: %w", err)
		}
		feed = f
	} else {
		feed = market.NewSyntheticFeed(runSymbol, runStart, time.Now().UTC(),
			time.Second, runN, runStddev, runFeedSeed)
	}

	strat, err := strategies.ByName(cfg.Strategy.Name, strategies.Params{
		ShortWindow:    cfg.Strategy.ShortWindow,
		LongWindow:     cfg.Strategy.LongWindow,
		MomentumWindow: cfg.Strategy.MomentumWindow,
	})
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	window, err := cfg.Risk.ParseWindow()
	if err != nil {
		return fmt.Errorf("risk window: %w", err)
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	runner := &backtest.Runner{
		Feed:       feed,
		Strategies: []strategies.Strategy{strat},
		Risk: risk.NewManager(cfg.Account.InitialCash, risk.Limits{
			Window:       window,
			MaxPerWindow: cfg.Risk.MaxPerWindow,
			MaxPosition:  cfg.Risk.MaxPosition,
		}),
		Exchange: sim.NewExchange(sim.Config{
			PFail:          cfg.Execution.PFail,
			PFull:          cfg.Execution.PFull,
			PPartial:       cfg.Execution.PPartial,
			SlippageStdDev: cfg.Execution.SlippageStdDev,
		}, cfg.Execution.Seed),
		Portfolio:       portfolio.New(cfg.Account.InitialCash),
		Journal:         j,
		Logger:          logger,
		DefaultQuantity: cfg.Account.DefaultQuantity,
	}

	fmt.Printf("Running backtest with strategy: %s\n\n", strat.Name())

	res, err := runner.Run(context.Background())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	backtest.PrintResult(os.Stdout, res)

	if runReportPath != "" {
		if err := report.SaveMarkdown(runReportPath, res.Curve); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report saved to: %s\n", runReportPath)
	}

	switch cfg.Journal.Type {
	case "csv":
		fmt.Printf("Audit trail saved to:\n  - %s\n  - %s\n", cfg.Journal.AuditFile, cfg.Journal.EquityFile)
	case "sqlite":
		fmt.Printf("Audit trail saved to: %s\n", cfg.Journal.DBPath)
	}

	return nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.AuditFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return journal.Nop{}, nil
	}
}
