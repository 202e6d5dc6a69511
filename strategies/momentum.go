package strategies

import (
	"github.com/quantlab/backsim/market"
	"github.com/quantlab/backsim/order"
)

// Momentum signals on the price change over a lookback window: BUY on
// positive momentum, SELL on negative, with the same no-repeat rule as MAC.
type Momentum struct {
	prices *window
	last   order.Side
}

func NewMomentum(windowSize int) *Momentum {
	if windowSize <= 0 {
		windowSize = 10
	}
	return &Momentum{prices: newWindow(windowSize)}
}

func (s *Momentum) Name() string { return "momentum" }

func (s *Momentum) OnTick(t market.Tick) []order.Side {
	s.prices.push(t.Price)
	if !s.prices.full() {
		return nil
	}

	momentum := t.Price - s.prices.oldest()

	switch {
	case momentum > 0 && s.last != order.Buy:
		s.last = order.Buy
		return []order.Side{order.Buy}
	case momentum < 0 && s.last != order.Sell:
		s.last = order.Sell
		return []order.Side{order.Sell}
	}
	return nil
}
