package report

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/quantlab/backsim/portfolio"
)

// WriteMarkdown renders the full performance report: narrative, summary
// table, and the ASCII equity plot in a fenced block.
func WriteMarkdown(w io.Writer, curve []portfolio.EquitySample) error {
	m, err := Compute(curve)
	if err != nil {
		return err
	}

	sharpe := fmt.Sprintf("%.3f", m.Sharpe)
	if math.IsInf(m.Sharpe, 0) {
		sharpe = "inf"
	}

	fmt.Fprintln(w, "# Backtest Performance Report")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "### Performance Analysis")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "- The strategy yielded a **total return of %.2f%%** over the backtest period.\n", m.TotalReturn*100)
	fmt.Fprintf(w, "- The **per-tick Sharpe ratio is %s** (not annualized); higher is better for the risk taken.\n", sharpe)
	fmt.Fprintf(w, "- The portfolio experienced a **maximum drawdown of %.2f%%**, the largest peak-to-trough decline over the run.\n", m.MaxDrawdown*100)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "### Summary Metrics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Metric                  | Value   |")
	fmt.Fprintln(w, "|-------------------------|---------|")
	fmt.Fprintf(w, "| Total Return            | %.2f%% |\n", m.TotalReturn*100)
	fmt.Fprintf(w, "| Sharpe Ratio (Per-Tick) | %s |\n", sharpe)
	fmt.Fprintf(w, "| Maximum Drawdown        | %.2f%% |\n", m.MaxDrawdown*100)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "### Equity Curve")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "```")
	fmt.Fprintln(w, ASCIIPlot(curve, 80, 20))
	fmt.Fprintln(w, "```")

	return nil
}

// SaveMarkdown writes the report to a file.
func SaveMarkdown(path string, curve []portfolio.EquitySample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteMarkdown(f, curve); err != nil {
		return err
	}
	return f.Sync()
}
