package market

import (
	"math/rand"
	"time"
)

// SyntheticFeed generates a seeded random-walk price series for a single
// symbol. It exists so demos and tests have a deterministic data source
// without downloading anything; two feeds built with the same parameters
// yield identical ticks.
type SyntheticFeed struct {
	symbol   string
	price    float64
	step     float64 // per-tick return stddev
	start    time.Time
	interval time.Duration
	remain   int
	rng      *rand.Rand
}

func NewSyntheticFeed(symbol string, startPrice float64, start time.Time, interval time.Duration, n int, stddev float64, seed int64) *SyntheticFeed {
	return &SyntheticFeed{
		symbol:   symbol,
		price:    startPrice,
		step:     stddev,
		start:    start,
		interval: interval,
		remain:   n,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (f *SyntheticFeed) Next() (Tick, bool, error) {
	if f.remain <= 0 {
		return Tick{}, false, nil
	}
	f.remain--

	t := Tick{Time: f.start, Symbol: f.symbol, Price: f.price}
	f.start = f.start.Add(f.interval)

	// Gaussian per-tick return; clamp so the walk stays strictly positive.
	f.price *= 1 + f.rng.NormFloat64()*f.step
	if f.price < 0.01 {
		f.price = 0.01
	}

	return t, true, nil
}

func (f *SyntheticFeed) Close() error { return nil }
