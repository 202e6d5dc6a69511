package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantlab/backsim/portfolio"
	"github.com/quantlab/backsim/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a performance report from an equity curve",
	Long: `Compute summary metrics (total return, per-tick Sharpe, max drawdown)
from an equity CSV produced by "backsim run" and render the markdown
report. With -output the report is written to a file, otherwise to stdout.

Example:
  backsim report -equity equity.csv -output report.md`,
	RunE: runReport,
}

var (
	reportEquityPath string
	reportOutput     string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportEquityPath, "equity", "e", "", "path to equity CSV (time,equity) (required)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write report to this path instead of stdout")
	reportCmd.MarkFlagRequired("equity")
}

func runReport(cmd *cobra.Command, args []string) error {
	curve, err := readEquityCSV(reportEquityPath)
	if err != nil {
		return fmt.Errorf("read equity curve: %w", err)
	}

	if reportOutput != "" {
		if err := report.SaveMarkdown(reportOutput, curve); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report saved to: %s\n", reportOutput)
		return nil
	}

	return report.WriteMarkdown(os.Stdout, curve)
}

func readEquityCSV(path string) ([]portfolio.EquitySample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var curve []portfolio.EquitySample
	for {
		row, err := r.Read()
		if err == io.EOF {
			return curve, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
			continue
		}

		ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("bad time %q: %w", row[0], err)
		}
		eq, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad equity %q: %w", row[1], err)
		}
		curve = append(curve, portfolio.EquitySample{Time: ts, Equity: eq})
	}
}
