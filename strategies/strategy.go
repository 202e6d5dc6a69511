// Package strategies holds the signal sources. A strategy consumes one
// market observation at a time and emits zero or more directional signals;
// its internal state (rolling windows, last signal) is its own business.
package strategies

import (
	"fmt"
	"strings"

	"github.com/quantlab/backsim/market"
	"github.com/quantlab/backsim/order"
)

// Strategy is the minimal interface a signal source must implement. OnTick is
// called exactly once per observation, in arrival order.
type Strategy interface {
	Name() string
	OnTick(t market.Tick) []order.Side
}

var registry = make(map[string]Strategy)

func Register(name string, strat Strategy) {
	registry[name] = strat
}

func Get(name string) Strategy {
	return registry[name]
}

// Params carries the tunables the built-in strategies understand.
type Params struct {
	ShortWindow    int // moving-average cross, default 20
	LongWindow     int // moving-average cross, default 50
	MomentumWindow int // momentum lookback, default 10
}

// ByName builds one of the built-in strategies.
func ByName(name string, p Params) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "mac", "ma-cross", "macross":
		return NewMAC(p.ShortWindow, p.LongWindow), nil

	case "momentum":
		return NewMomentum(p.MomentumWindow), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, mac, momentum)", name)
	}
}
