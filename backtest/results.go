package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/quantlab/backsim/portfolio"
)

// Result is a lightweight summary of a backtest run.
type Result struct {
	FinalCash   float64
	FinalEquity float64
	Positions   map[string]portfolio.Position
	Curve       []portfolio.EquitySample

	Observations int
	Submitted    int
	Filled       int
	Partial      int
	Rejected     int
	Failed       int
	Canceled     int

	Start time.Time
	End   time.Time
}

func PrintResult(w io.Writer, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	fmt.Fprintf(w, "Observations:  %d\n", r.Observations)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Order Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Submitted:     %d\n", r.Submitted)
	fmt.Fprintf(w, "Filled:        %d\n", r.Filled)
	fmt.Fprintf(w, "Partial:       %d\n", r.Partial)
	fmt.Fprintf(w, "Rejected:      %d\n", r.Rejected)
	fmt.Fprintf(w, "Failed:        %d\n", r.Failed)
	fmt.Fprintf(w, "Canceled:      %d\n", r.Canceled)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Final Cash:    %.2f\n", r.FinalCash)
	fmt.Fprintf(w, "Final Equity:  %.2f\n", r.FinalEquity)

	if len(r.Positions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Open Positions")
		fmt.Fprintln(w, "--------------------------------------------------")
		for sym, pos := range r.Positions {
			fmt.Fprintf(w, "%-10s qty=%-6d basis=%.2f\n", sym, pos.Quantity, pos.AvgPrice)
		}
	}

	fmt.Fprintln(w)
}
