// Package sim is the simulated execution venue. Given an admitted order it
// stochastically decides between a full fill, a partial fill, a no-liquidity
// cancellation, and a transient execution failure, and computes a fill price
// with Gaussian slippage. All randomness comes from one seedable source so a
// run is reproducible given a fixed seed.
package sim

import (
	"errors"
	"math"
	"math/rand"

	"github.com/quantlab/backsim/order"
)

// ErrExecution marks a transient simulated venue fault. It is distinct from
// a validation rejection and from a no-liquidity cancellation: the order is
// still executable, the venue just failed this attempt. Callers mark the
// order FAILED and move on; retrying is their policy decision.
var ErrExecution = errors.New("simulated execution failure")

type Config struct {
	// PFail is the chance a call fails outright before any fill logic runs.
	PFail float64
	// PFull and PPartial are evaluated against independent draws, in that
	// order. They deliberately do not partition a single draw; the source
	// behavior is preserved rather than normalized, so the effective partial
	// rate is (1-PFull)*PPartial.
	PFull    float64
	PPartial float64
	// SlippageStdDev is the standard deviation of the zero-mean Gaussian
	// slippage applied to the requested price.
	SlippageStdDev float64
}

func DefaultConfig() Config {
	return Config{
		PFail:          0.02,
		PFull:          0.95,
		PPartial:       0.04,
		SlippageStdDev: 0.0001,
	}
}

type Exchange struct {
	cfg Config
	rng *rand.Rand
}

func NewExchange(cfg Config, seed int64) *Exchange {
	return &Exchange{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Simulate executes one fill attempt for the order.
//
// Outcomes:
//   - (0, 0, ErrExecution): transient venue fault, order untouched
//   - (price, qty>0, nil): full or partial fill, order status advanced
//   - (0, 0, nil): no liquidity, order terminally rejected with a reason
//
// Fill prices are rounded to 2 decimal places for downstream cash accounting.
func (e *Exchange) Simulate(o *order.Order) (fillPrice float64, filledQty int, err error) {
	if e.rng.Float64() < e.cfg.PFail {
		return 0, 0, ErrExecution
	}

	switch {
	case e.rng.Float64() < e.cfg.PFull:
		filledQty = o.Quantity
	case e.rng.Float64() < e.cfg.PPartial:
		// Uniform in [1, quantity-1]. A 1-lot has no strict interior, so it
		// fills whole.
		if o.Quantity <= 1 {
			filledQty = o.Quantity
		} else {
			filledQty = 1 + e.rng.Intn(o.Quantity-1)
		}
	default:
		o.MarkCanceled("canceled: no liquidity")
		return 0, 0, nil
	}

	slippage := e.rng.NormFloat64() * e.cfg.SlippageStdDev
	fillPrice = round2(o.Price * (1 + slippage))

	o.MarkFilled(filledQty)
	return fillPrice, filledQty, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
