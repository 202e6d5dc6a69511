package risk

import "time"

// Limits is the risk policy enforced by the Manager before an order reaches
// the execution venue.
type Limits struct {
	// Window and MaxPerWindow bound admitted-order throughput: at most
	// MaxPerWindow orders may be admitted inside any trailing Window.
	Window       time.Duration
	MaxPerWindow int

	// MaxPosition is a symmetric per-symbol bound: the projected post-fill
	// position may not exceed +MaxPosition or fall below -MaxPosition.
	MaxPosition int
}

func DefaultLimits() Limits {
	return Limits{
		Window:       60 * time.Second,
		MaxPerWindow: 50,
		MaxPosition:  500,
	}
}
