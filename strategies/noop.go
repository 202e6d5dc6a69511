package strategies

import (
	"github.com/quantlab/backsim/market"
	"github.com/quantlab/backsim/order"
)

// Noop never signals. Baseline for pipeline plumbing tests.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) OnTick(market.Tick) []order.Side { return nil }
