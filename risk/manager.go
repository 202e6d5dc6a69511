// Package risk validates candidate orders against capital, throughput and
// exposure limits. The Manager owns the risk ledger: a sliding window of
// admitted-order timestamps and a live mirror of each symbol's position that
// the accountant pushes into after every fill.
package risk

import (
	"fmt"
	"time"

	"github.com/quantlab/backsim/order"
)

type Manager struct {
	limits Limits

	cash      float64
	window    []time.Time
	positions map[string]int
}

func NewManager(initialCash float64, limits Limits) *Manager {
	if limits.Window <= 0 {
		limits.Window = DefaultLimits().Window
	}
	if limits.MaxPerWindow <= 0 {
		limits.MaxPerWindow = DefaultLimits().MaxPerWindow
	}
	if limits.MaxPosition <= 0 {
		limits.MaxPosition = DefaultLimits().MaxPosition
	}
	return &Manager{
		limits:    limits,
		cash:      initialCash,
		positions: make(map[string]int),
	}
}

// Validate runs the risk checks in fixed order; the first failing check
// rejects the order in place and the rest are skipped:
//
//  1. structural quantity/price
//  2. capital sufficiency (BUY only; shorting is bounded by position limits)
//  3. order rate inside the trailing window
//  4. symmetric position bound in the order's direction
//
// On success the submission time is recorded in the rate window and the
// order's status is left untouched for the execution venue.
func (m *Manager) Validate(o *order.Order, now time.Time) bool {
	if err := o.Validate(); err != nil {
		o.MarkRejected(fmt.Sprintf("invalid quantity/price: %v", err))
		return false
	}

	if o.Side == order.Buy {
		cost := float64(o.Quantity) * o.Price
		if cost > m.cash {
			o.MarkRejected("insufficient capital")
			return false
		}
	}

	m.prune(now)
	if len(m.window) >= m.limits.MaxPerWindow {
		o.MarkRejected("rate limit exceeded")
		return false
	}

	pos := m.positions[o.Symbol]
	if o.Side == order.Buy && pos+o.Quantity > m.limits.MaxPosition {
		o.MarkRejected(fmt.Sprintf("position limit (%d) exceeded", m.limits.MaxPosition))
		return false
	}
	if o.Side == order.Sell && pos-o.Quantity < -m.limits.MaxPosition {
		o.MarkRejected(fmt.Sprintf("short position limit (-%d) exceeded", m.limits.MaxPosition))
		return false
	}

	m.window = append(m.window, now)
	return true
}

// prune drops window entries older than now-Window. Pruning is lazy: it only
// happens on the next validation.
func (m *Manager) prune(now time.Time) {
	cutoff := now.Add(-m.limits.Window)
	i := 0
	for i < len(m.window) && !m.window[i].After(cutoff) {
		i++
	}
	if i > 0 {
		m.window = append(m.window[:0], m.window[i:]...)
	}
}

// SetPosition updates the ledger's mirror of a symbol's position. The
// accountant calls this immediately after applying a fill so subsequent
// validations see up-to-date exposure.
func (m *Manager) SetPosition(symbol string, qty int) {
	m.positions[symbol] = qty
}

// SetCash updates the ledger's view of available cash.
func (m *Manager) SetCash(cash float64) {
	m.cash = cash
}

// Position returns the ledger's current view of a symbol's exposure.
func (m *Manager) Position(symbol string) int {
	return m.positions[symbol]
}

// Pending returns how many admissions are currently inside the window as of
// the last validation.
func (m *Manager) Pending() int {
	return len(m.window)
}
