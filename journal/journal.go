// Package journal is the audit sink for the pipeline. One OrderRecord is
// written per processed order and one EquityRecord per observation. Sinks are
// injected into the runner; there is no process-wide logger.
package journal

import "time"

// OrderRecord is one audit line. Logged is the wall-clock time the record was
// written; the rest mirrors the order at its final state for the tick.
type OrderRecord struct {
	Logged   time.Time
	OrderID  string
	Symbol   string
	Side     string
	Quantity int
	Price    float64
	Status   string
	Reason   string
}

// EquityRecord is one equity-curve sample keyed by observation time.
type EquityRecord struct {
	Time   time.Time
	Equity float64
}

type Journal interface {
	RecordOrder(OrderRecord) error
	RecordEquity(EquityRecord) error
	Close() error
}

// Nop discards everything. Useful for tests and dry runs.
type Nop struct{}

func (Nop) RecordOrder(OrderRecord) error   { return nil }
func (Nop) RecordEquity(EquityRecord) error { return nil }
func (Nop) Close() error                    { return nil }
