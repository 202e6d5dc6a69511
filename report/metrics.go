// Package report turns an equity curve into summary statistics and a
// rendered performance report. It consumes only the curve's shape and
// ordering; how the curve was produced is the pipeline's business.
package report

import (
	"fmt"
	"math"

	"github.com/quantlab/backsim/portfolio"
)

type Metrics struct {
	// TotalReturn is (final/initial) - 1.
	TotalReturn float64
	// Sharpe is the per-tick mean return over its standard deviation; not
	// annualized. +Inf when the curve has no volatility.
	Sharpe float64
	// MaxDrawdown is the largest peak-to-trough decline, as a fraction of
	// the peak.
	MaxDrawdown float64
}

// Compute derives the summary metrics from an equity curve. At least two
// samples are required.
func Compute(curve []portfolio.EquitySample) (Metrics, error) {
	if len(curve) < 2 {
		return Metrics{}, fmt.Errorf("equity curve has %d samples, need at least 2", len(curve))
	}

	first := curve[0].Equity
	last := curve[len(curve)-1].Equity
	if first == 0 {
		return Metrics{}, fmt.Errorf("initial equity is zero")
	}

	m := Metrics{TotalReturn: last/first - 1}

	// Tick-to-tick returns.
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, curve[i].Equity/prev-1)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	std := math.Sqrt(variance)

	if std > 0 {
		m.Sharpe = mean / std
	} else {
		m.Sharpe = math.Inf(1)
	}

	peak := curve[0].Equity
	for _, s := range curve {
		if s.Equity > peak {
			peak = s.Equity
		}
		if peak > 0 {
			if dd := (peak - s.Equity) / peak; dd > m.MaxDrawdown {
				m.MaxDrawdown = dd
			}
		}
	}

	return m, nil
}
