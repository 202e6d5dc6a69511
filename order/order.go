// Package order defines the order record shared by the validator, the
// execution simulator, and the accountant, along with its status state
// machine.
package order

import (
	"errors"
	"time"

	"github.com/quantlab/backsim/internal/id"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

type Kind string

const (
	Market Kind = "MARKET"
	Limit  Kind = "LIMIT"
)

// Status is a finite state machine:
//
//	NEW -> {REJECTED, FAILED, PENDING, FILLED}
//	PENDING -> {FILLED}           (fills accumulate)
//
// REJECTED, FAILED and FILLED are terminal. A no-liquidity cancellation is a
// terminal rejection with its own reason.
type Status string

const (
	New      Status = "NEW"
	Pending  Status = "PENDING"
	Filled   Status = "FILLED"
	Rejected Status = "REJECTED"
	Failed   Status = "FAILED"
)

var (
	ErrQuantity = errors.New("order quantity must be strictly positive")
	ErrPrice    = errors.New("order price must be strictly positive")
)

// Order is created once per admitted signal and never reused across ticks.
// ID is a ULID, so ids assigned later sort after ids assigned earlier.
type Order struct {
	ID       string
	Symbol   string
	Side     Side
	Kind     Kind
	Quantity int
	Price    float64

	Status         Status
	FilledQuantity int
	Reason         string
	Created        time.Time
}

// NewMarket builds a NEW market order for the given signal.
func NewMarket(symbol string, side Side, quantity int, price float64, created time.Time) *Order {
	return &Order{
		ID:       id.New(),
		Symbol:   symbol,
		Side:     side,
		Kind:     Market,
		Quantity: quantity,
		Price:    price,
		Status:   New,
		Created:  created,
	}
}

// Validate enforces the structural invariants only. Risk checks live in the
// risk package.
func (o *Order) Validate() error {
	if o.Quantity <= 0 {
		return ErrQuantity
	}
	if o.Price <= 0 {
		return ErrPrice
	}
	return nil
}

// MarkFilled accumulates a fill and advances the state machine: FILLED once
// the full quantity is done, PENDING otherwise.
func (o *Order) MarkFilled(qty int) {
	o.FilledQuantity += qty
	if o.FilledQuantity == o.Quantity {
		o.Status = Filled
	} else {
		o.Status = Pending
	}
}

func (o *Order) MarkRejected(reason string) {
	o.Status = Rejected
	o.Reason = reason
}

func (o *Order) MarkFailed(reason string) {
	o.Status = Failed
	o.Reason = reason
}

// MarkCanceled records a venue-side cancellation. There is no separate
// CANCELED status; a canceled order lands in REJECTED with its own reason.
func (o *Order) MarkCanceled(reason string) {
	o.MarkRejected(reason)
}

// Terminal reports whether the order can no longer change state.
func (o *Order) Terminal() bool {
	switch o.Status {
	case Rejected, Failed, Filled:
		return true
	}
	return false
}
