// Package book is a standalone price-time priority structure for resting
// orders. The default pipeline executes immediately against the simulator and
// does not need it; it is offered for strategies and venues that want
// continuous double-auction semantics.
package book

import (
	"container/heap"
	"time"

	"github.com/quantlab/backsim/order"
)

// Entry is a resting order keyed by (price priority, arrival time).
type Entry struct {
	Order   *order.Order
	Arrival time.Time
}

// sideHeap orders entries so the heap root is always the best of its side:
// highest price first for bids, lowest price first for asks. Equal prices
// fall back to earliest arrival.
type sideHeap struct {
	entries []Entry
	bids    bool
}

func (h *sideHeap) Len() int { return len(h.entries) }

func (h *sideHeap) Less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if a.Order.Price != b.Order.Price {
		if h.bids {
			return a.Order.Price > b.Order.Price
		}
		return a.Order.Price < b.Order.Price
	}
	return a.Arrival.Before(b.Arrival)
}

func (h *sideHeap) Swap(i, j int) { h.entries[i], h.entries[j] = h.entries[j], h.entries[i] }

func (h *sideHeap) Push(x any) { h.entries = append(h.entries, x.(Entry)) }

func (h *sideHeap) Pop() any {
	n := len(h.entries)
	e := h.entries[n-1]
	h.entries = h.entries[:n-1]
	return e
}

type Book struct {
	bids sideHeap
	asks sideHeap
}

func New() *Book {
	return &Book{
		bids: sideHeap{bids: true},
		asks: sideHeap{bids: false},
	}
}

// Add rests an order on the bid or ask side by its direction.
func (b *Book) Add(o *order.Order, arrival time.Time) {
	e := Entry{Order: o, Arrival: arrival}
	if o.Side == order.Buy {
		heap.Push(&b.bids, e)
	} else {
		heap.Push(&b.asks, e)
	}
}

// BestBid peeks the highest-priced (then earliest) resting buy.
func (b *Book) BestBid() (Entry, bool) {
	if b.bids.Len() == 0 {
		return Entry{}, false
	}
	return b.bids.entries[0], true
}

// BestAsk peeks the lowest-priced (then earliest) resting sell.
func (b *Book) BestAsk() (Entry, bool) {
	if b.asks.Len() == 0 {
		return Entry{}, false
	}
	return b.asks.entries[0], true
}

// PopBestBid removes and returns the best bid.
func (b *Book) PopBestBid() (Entry, bool) {
	if b.bids.Len() == 0 {
		return Entry{}, false
	}
	return heap.Pop(&b.bids).(Entry), true
}

// PopBestAsk removes and returns the best ask.
func (b *Book) PopBestAsk() (Entry, bool) {
	if b.asks.Len() == 0 {
		return Entry{}, false
	}
	return heap.Pop(&b.asks).(Entry), true
}

// Crossed reports whether the best bid price is at or above the best ask
// price, i.e. strict price-time priority matching would produce a trade.
func (b *Book) Crossed() bool {
	bid, ok := b.BestBid()
	if !ok {
		return false
	}
	ask, ok := b.BestAsk()
	if !ok {
		return false
	}
	return bid.Order.Price >= ask.Order.Price
}

func (b *Book) Bids() int { return b.bids.Len() }
func (b *Book) Asks() int { return b.asks.Len() }
