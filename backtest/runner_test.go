package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/backsim/journal"
	"github.com/quantlab/backsim/market"
	"github.com/quantlab/backsim/order"
	"github.com/quantlab/backsim/portfolio"
	"github.com/quantlab/backsim/risk"
	"github.com/quantlab/backsim/sim"
	"github.com/quantlab/backsim/strategies"
)

// sliceFeed replays an in-memory tick slice.
type sliceFeed struct {
	ticks []market.Tick
	i     int
}

func (f *sliceFeed) Next() (market.Tick, bool, error) {
	if f.i >= len(f.ticks) {
		return market.Tick{}, false, nil
	}
	t := f.ticks[f.i]
	f.i++
	return t, true, nil
}

func (f *sliceFeed) Close() error { return nil }

// scripted emits a fixed signal sequence, one entry per tick.
type scripted struct {
	signals [][]order.Side
	i       int
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) OnTick(market.Tick) []order.Side {
	if s.i >= len(s.signals) {
		return nil
	}
	out := s.signals[s.i]
	s.i++
	return out
}

// captureJournal records everything in memory; panicFirst makes the first
// RecordOrder call blow up to exercise per-order fault isolation.
type captureJournal struct {
	orders     []journal.OrderRecord
	equity     []journal.EquityRecord
	panicFirst bool
}

func (j *captureJournal) RecordOrder(r journal.OrderRecord) error {
	if j.panicFirst {
		j.panicFirst = false
		panic("audit sink exploded")
	}
	j.orders = append(j.orders, r)
	return nil
}

func (j *captureJournal) RecordEquity(r journal.EquityRecord) error {
	j.equity = append(j.equity, r)
	return nil
}

func (j *captureJournal) Close() error { return nil }

func ticks(n int, startPrice float64) []market.Tick {
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	out := make([]market.Tick, n)
	for i := range out {
		out[i] = market.Tick{
			Time:   t0.Add(time.Duration(i) * time.Second),
			Symbol: "AAPL",
			Price:  startPrice + float64(i),
		}
	}
	return out
}

func newRunner(feed market.Feed, strat strategies.Strategy, excfg sim.Config, j journal.Journal) *Runner {
	p := portfolio.New(100_000)
	return &Runner{
		Feed:            feed,
		Strategies:      []strategies.Strategy{strat},
		Risk:            risk.NewManager(100_000, risk.DefaultLimits()),
		Exchange:        sim.NewExchange(excfg, 1),
		Portfolio:       p,
		Journal:         j,
		DefaultQuantity: 10,
		Clock:           func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func fullFillConfig() sim.Config {
	return sim.Config{PFail: 0, PFull: 1, PPartial: 0, SlippageStdDev: 0}
}

func TestEquityCurveOnePerObservation(t *testing.T) {
	j := &captureJournal{}
	r := newRunner(&sliceFeed{ticks: ticks(25, 100)}, strategies.Noop{}, fullFillConfig(), j)

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 25, res.Observations)
	assert.Len(t, res.Curve, 25)
	assert.Len(t, j.equity, 25)
	assert.Equal(t, 0, res.Submitted)

	// Samples arrive in observation order.
	for i := 1; i < len(res.Curve); i++ {
		assert.True(t, res.Curve[i].Time.After(res.Curve[i-1].Time))
	}
}

func TestFilledOrderMovesCashAndPosition(t *testing.T) {
	j := &captureJournal{}
	strat := &scripted{signals: [][]order.Side{{order.Buy}}}
	feed := &sliceFeed{ticks: ticks(3, 100)}

	r := newRunner(feed, strat, fullFillConfig(), j)
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Submitted)
	assert.Equal(t, 1, res.Filled)
	assert.Equal(t, 99_000.0, res.FinalCash)
	assert.Equal(t, 10, res.Positions["AAPL"].Quantity)
	assert.Equal(t, 100.0, res.Positions["AAPL"].AvgPrice)

	require.Len(t, j.orders, 1)
	rec := j.orders[0]
	assert.Equal(t, "BUY", rec.Side)
	assert.Equal(t, "FILLED", rec.Status)
	assert.Equal(t, 10, rec.Quantity)
	assert.False(t, rec.Logged.IsZero())
}

func TestRejectedOrderLeavesStateUntouched(t *testing.T) {
	j := &captureJournal{}
	strat := &scripted{signals: [][]order.Side{{order.Buy}}}
	feed := &sliceFeed{ticks: []market.Tick{{
		Time: time.Now(), Symbol: "AAPL", Price: 50_000, // qty 10 costs 500k > cash
	}}}

	r := newRunner(feed, strat, fullFillConfig(), j)
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, 0, res.Filled)
	assert.Equal(t, 100_000.0, res.FinalCash)
	assert.Empty(t, res.Positions["AAPL"].Quantity)

	require.Len(t, j.orders, 1)
	assert.Equal(t, "REJECTED", j.orders[0].Status)
	assert.Equal(t, "insufficient capital", j.orders[0].Reason)
}

func TestExecutionFailureDoesNotAbortRun(t *testing.T) {
	j := &captureJournal{}
	strat := &scripted{signals: [][]order.Side{{order.Buy}, {order.Buy}}}
	feed := &sliceFeed{ticks: ticks(2, 100)}

	r := newRunner(feed, strat, sim.Config{PFail: 1, PFull: 1}, j)
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, 100_000.0, res.FinalCash)
	assert.Equal(t, 2, res.Observations)

	require.Len(t, j.orders, 2)
	assert.Equal(t, "FAILED", j.orders[0].Status)
	assert.Equal(t, "simulated execution failure", j.orders[0].Reason)
}

func TestNoLiquidityCancelKeepsState(t *testing.T) {
	j := &captureJournal{}
	strat := &scripted{signals: [][]order.Side{{order.Buy}}}
	feed := &sliceFeed{ticks: ticks(1, 100)}

	r := newRunner(feed, strat, sim.Config{PFail: 0, PFull: 0, PPartial: 0}, j)
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Canceled)
	assert.Equal(t, 100_000.0, res.FinalCash)

	require.Len(t, j.orders, 1)
	assert.Equal(t, "REJECTED", j.orders[0].Status)
	assert.Equal(t, "canceled: no liquidity", j.orders[0].Reason)
}

func TestPanicIsIsolatedPerOrder(t *testing.T) {
	j := &captureJournal{panicFirst: true}
	strat := &scripted{signals: [][]order.Side{{order.Buy}}}
	feed := &sliceFeed{ticks: ticks(3, 100)}

	r := newRunner(feed, strat, fullFillConfig(), j)
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	// The exploding audit write is caught at order granularity; the run
	// finishes and the order is re-audited as FAILED.
	assert.Equal(t, 3, res.Observations)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, j.orders, 1)
	assert.Equal(t, "FAILED", j.orders[0].Status)
	assert.Contains(t, j.orders[0].Reason, "unexpected fault")
}

func TestRiskLedgerSeesFillsWithinRun(t *testing.T) {
	// 50 BUY fills of 10 reach the 500-share bound; the 51st must be
	// rejected by the position limit using the accountant's updates.
	sides := make([][]order.Side, 51)
	for i := range sides {
		sides[i] = []order.Side{order.Buy}
	}
	strat := &scripted{signals: sides}

	tks := make([]market.Tick, 51)
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := range tks {
		// Spread ticks 2s apart so the rate limit never trips.
		tks[i] = market.Tick{Time: t0.Add(time.Duration(2*i) * time.Second), Symbol: "AAPL", Price: 1}
	}

	j := &captureJournal{}
	r := newRunner(&sliceFeed{ticks: tks}, strat, fullFillConfig(), j)
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50, res.Filled)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, 500, res.Positions["AAPL"].Quantity)
	assert.Equal(t, "position limit (500) exceeded", j.orders[50].Reason)
}

func TestDeterministicRunsProduceIdenticalCurves(t *testing.T) {
	run := func() Result {
		feed := market.NewSyntheticFeed("AAPL", 100,
			time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), time.Second, 500, 0.01, 7)
		r := newRunner(feed, strategies.NewMAC(5, 20), sim.DefaultConfig(), &captureJournal{})
		res, err := r.Run(context.Background())
		require.NoError(t, err)
		return res
	}

	a := run()
	b := run()

	assert.Equal(t, a.Curve, b.Curve)
	assert.Equal(t, a.FinalCash, b.FinalCash)
	assert.Equal(t, a.Filled, b.Filled)
	assert.Equal(t, a.Rejected, b.Rejected)
	assert.Equal(t, a.Failed, b.Failed)
}
