package strategies

import (
	"github.com/quantlab/backsim/market"
	"github.com/quantlab/backsim/order"
)

// MAC is a moving-average crossover signal source: BUY when the short
// average is above the long one, SELL when below. It never repeats the same
// direction twice in a row, so a monotone price series yields at most one
// transition per crossing event.
type MAC struct {
	short *window
	long  *window
	last  order.Side
}

func NewMAC(shortWindow, longWindow int) *MAC {
	if shortWindow <= 0 {
		shortWindow = 20
	}
	if longWindow <= 0 {
		longWindow = 50
	}
	return &MAC{
		short: newWindow(shortWindow),
		long:  newWindow(longWindow),
	}
}

func (s *MAC) Name() string { return "mac" }

func (s *MAC) OnTick(t market.Tick) []order.Side {
	s.short.push(t.Price)
	s.long.push(t.Price)

	if !s.short.full() || !s.long.full() {
		return nil
	}

	shortMA := s.short.mean()
	longMA := s.long.mean()

	switch {
	case shortMA > longMA && s.last != order.Buy:
		s.last = order.Buy
		return []order.Side{order.Buy}
	case shortMA < longMA && s.last != order.Sell:
		s.last = order.Sell
		return []order.Side{order.Sell}
	}
	return nil
}
