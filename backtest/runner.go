// Package backtest drives the pipeline: it replays a feed through the signal
// sources, pushes candidate orders through validation and the simulated
// venue, applies fills to the accountant, and samples equity once per
// observation. The loop is strictly single-threaded; one observation is
// fully processed before the next is admitted.
package backtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/quantlab/backsim/journal"
	"github.com/quantlab/backsim/market"
	"github.com/quantlab/backsim/order"
	"github.com/quantlab/backsim/portfolio"
	"github.com/quantlab/backsim/risk"
	"github.com/quantlab/backsim/sim"
	"github.com/quantlab/backsim/strategies"
)

type Runner struct {
	Feed       market.Feed
	Strategies []strategies.Strategy
	Risk       *risk.Manager
	Exchange   *sim.Exchange
	Portfolio  *portfolio.Portfolio
	Journal    journal.Journal
	Logger     *slog.Logger

	// DefaultQuantity is the requested quantity for every signal-derived
	// order.
	DefaultQuantity int

	// Clock stamps audit records with wall-clock time. Defaults to time.Now;
	// tests override it.
	Clock func() time.Time
}

// Run executes the backtest loop to feed exhaustion. Per-order faults are
// isolated: a rejected, failed, or canceled order is logged and the loop
// continues. Only feed and journal errors abort the run.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if r.Risk == nil {
		return Result{}, fmt.Errorf("backtest: Risk is required")
	}
	if r.Exchange == nil {
		return Result{}, fmt.Errorf("backtest: Exchange is required")
	}
	if r.Portfolio == nil {
		return Result{}, fmt.Errorf("backtest: Portfolio is required")
	}
	if r.Journal == nil {
		r.Journal = journal.Nop{}
	}
	if r.Logger == nil {
		r.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if r.Clock == nil {
		r.Clock = time.Now
	}
	if r.DefaultQuantity <= 0 {
		r.DefaultQuantity = 10
	}
	defer r.Feed.Close()

	// The accountant pushes position/cash updates into the risk ledger
	// after every fill; wire the sink before the first observation.
	r.Portfolio.SetSink(r.Risk)

	var res Result
	prices := make(map[string]float64)

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		tick, ok, err := r.Feed.Next()
		if err != nil {
			return res, fmt.Errorf("feed: %w", err)
		}
		if !ok {
			break
		}

		if res.Observations == 0 || tick.Time.Before(res.Start) {
			res.Start = tick.Time
		}
		if res.Observations == 0 || tick.Time.After(res.End) {
			res.End = tick.Time
		}
		res.Observations++
		prices[tick.Symbol] = tick.Price

		for _, strat := range r.Strategies {
			for _, side := range strat.OnTick(tick) {
				r.processSignal(tick, side, &res)
			}
		}

		sample := r.Portfolio.Sample(tick.Time, prices)
		if err := r.Journal.RecordEquity(journal.EquityRecord(sample)); err != nil {
			return res, fmt.Errorf("journal equity: %w", err)
		}
	}

	res.FinalCash = r.Portfolio.Cash()
	res.FinalEquity = r.Portfolio.Equity(prices)
	res.Positions = r.Portfolio.Positions()
	res.Curve = r.Portfolio.Curve()
	return res, nil
}

// processSignal runs one candidate order through the pipeline. Unexpected
// faults are caught here at per-order granularity: the order is marked
// failed with a descriptive reason, audited, and the run continues.
func (r *Runner) processSignal(tick market.Tick, side order.Side, res *Result) {
	o := order.NewMarket(tick.Symbol, side, r.DefaultQuantity, tick.Price, tick.Time)
	res.Submitted++

	defer func() {
		if rec := recover(); rec != nil {
			o.MarkFailed(fmt.Sprintf("unexpected fault: %v", rec))
			res.Failed++
			r.audit(o)
			r.Logger.Error("order processing panicked",
				slog.String("order_id", o.ID),
				slog.Any("fault", rec),
			)
		}
	}()

	// Rate limiting runs on simulated (observation) time.
	if !r.Risk.Validate(o, tick.Time) {
		res.Rejected++
		r.audit(o)
		r.Logger.Debug("order rejected",
			slog.String("order_id", o.ID),
			slog.String("reason", o.Reason),
		)
		return
	}

	fillPrice, filledQty, err := r.Exchange.Simulate(o)
	if err != nil {
		// Transient venue fault: terminal for this order, recoverable for
		// the run. No automatic retry.
		o.MarkFailed(err.Error())
		res.Failed++
		r.audit(o)
		return
	}
	if filledQty == 0 {
		// No liquidity this round; cash and positions untouched.
		res.Canceled++
		r.audit(o)
		return
	}

	r.Portfolio.ApplyFill(o, fillPrice, filledQty)
	if o.Status == order.Filled {
		res.Filled++
	} else {
		res.Partial++
	}
	r.audit(o)
}

func (r *Runner) audit(o *order.Order) {
	err := r.Journal.RecordOrder(journal.OrderRecord{
		Logged:   r.Clock(),
		OrderID:  o.ID,
		Symbol:   o.Symbol,
		Side:     string(o.Side),
		Quantity: o.Quantity,
		Price:    o.Price,
		Status:   string(o.Status),
		Reason:   o.Reason,
	})
	if err != nil {
		// Audit I/O must not poison in-memory state; log and move on.
		r.Logger.Error("audit write failed",
			slog.String("order_id", o.ID),
			slog.String("error", err.Error()),
		)
	}
}
