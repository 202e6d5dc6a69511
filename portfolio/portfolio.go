// Package portfolio is the accountant: it applies fills to cash and position
// state, keeps a weighted-average cost basis per symbol, and samples
// mark-to-market equity once per observation.
package portfolio

import (
	"time"

	"github.com/quantlab/backsim/order"
)

// Position is a signed holding: positive quantity is long, negative is short.
// AvgPrice is the weighted-average cost basis; it is zero exactly when the
// quantity is zero.
type Position struct {
	Quantity int
	AvgPrice float64
}

// EquitySample is one point of the equity curve.
type EquitySample struct {
	Time   time.Time
	Equity float64
}

// PositionSink is the narrow capability the accountant uses to keep the
// validator's risk ledger consistent within a single pipeline pass. It is
// deliberately not a reference to the validator itself.
type PositionSink interface {
	SetPosition(symbol string, qty int)
	SetCash(cash float64)
}

type Portfolio struct {
	cash      float64
	positions map[string]Position
	curve     []EquitySample
	sink      PositionSink
}

func New(initialCash float64) *Portfolio {
	return &Portfolio{
		cash:      initialCash,
		positions: make(map[string]Position),
	}
}

// SetSink wires the risk-ledger sink. Nil disables propagation (useful in
// tests that exercise accounting alone).
func (p *Portfolio) SetSink(s PositionSink) { p.sink = s }

func (p *Portfolio) Cash() float64 { return p.cash }

func (p *Portfolio) Position(symbol string) Position {
	return p.positions[symbol]
}

// Positions returns a copy of the current holdings.
func (p *Portfolio) Positions() map[string]Position {
	out := make(map[string]Position, len(p.positions))
	for sym, pos := range p.positions {
		out[sym] = pos
	}
	return out
}

// ApplyFill realizes a fill against cash and position state.
//
// Cash moves only here: down by qty*price on BUY, up on SELL. The cost basis
// is blended as a quantity-weighted average whenever the old and new
// quantities share a sign (or the position was flat), and reset to zero when
// the position returns exactly to zero. A fill that flips the sign in one go
// keeps the previous basis untouched; that quirk is pinned by tests rather
// than decomposed into close-then-open accounting.
func (p *Portfolio) ApplyFill(o *order.Order, fillPrice float64, filledQty int) {
	pos := p.positions[o.Symbol]

	cost := float64(filledQty) * fillPrice
	if o.Side == order.Sell {
		p.cash += cost
	} else {
		p.cash -= cost
	}

	oldQty := pos.Quantity
	newQty := oldQty + filledQty
	if o.Side == order.Sell {
		newQty = oldQty - filledQty
	}

	switch {
	case newQty*oldQty >= 0 && newQty != 0:
		total := pos.AvgPrice*float64(oldQty) + fillPrice*float64(filledQty)
		pos.AvgPrice = total / float64(newQty)
	case newQty == 0:
		pos.AvgPrice = 0
	}

	pos.Quantity = newQty
	p.positions[o.Symbol] = pos

	// Keep the validator's exposure mirror current before the next check.
	if p.sink != nil {
		p.sink.SetPosition(o.Symbol, newQty)
		p.sink.SetCash(p.cash)
	}
}

// Equity is cash plus every held position marked to the given prices. A
// symbol with no known market price falls back to its own cost basis.
func (p *Portfolio) Equity(prices map[string]float64) float64 {
	total := p.cash
	for sym, pos := range p.positions {
		price, ok := prices[sym]
		if !ok {
			price = pos.AvgPrice
		}
		total += float64(pos.Quantity) * price
	}
	return total
}

// Sample appends one equity point. The runner calls it exactly once per
// observation, order or no order.
func (p *Portfolio) Sample(t time.Time, prices map[string]float64) EquitySample {
	s := EquitySample{Time: t, Equity: p.Equity(prices)}
	p.curve = append(p.curve, s)
	return s
}

// Curve returns the append-only equity curve in observation order.
func (p *Portfolio) Curve() []EquitySample { return p.curve }
