package market

import "time"

// Tick is a single market observation: one symbol traded at one price at one
// instant. Producers guarantee Price > 0; the pipeline never re-validates it
// and never mutates a Tick after creation.
type Tick struct {
	Time   time.Time
	Symbol string
	Price  float64
}

// Feed yields ticks one at a time in non-decreasing time order.
// Implementations should be deterministic and return (ok=false, err=nil) at EOF.
type Feed interface {
	Next() (t Tick, ok bool, err error)
	Close() error
}
