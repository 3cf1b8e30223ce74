package forecast

import (
	"math"
	"math/rand"
	"sort"
	"time"
)

const (
	// DefaultTrials is the Monte Carlo sample count per simulation.
	DefaultTrials = 1000
	// DefaultVolatility scales the Gaussian noise relative to the base value.
	DefaultVolatility = 0.1
)

// SimulatorOption configures Simulator.
type SimulatorOption func(*Simulator)

// WithTrials sets the number of samples drawn per simulation.
func WithTrials(n int) SimulatorOption {
	return func(s *Simulator) {
		if n > 0 {
			s.trials = n
		}
	}
}

// WithVolatility sets the relative noise scale.
func WithVolatility(v float64) SimulatorOption {
	return func(s *Simulator) {
		if v >= 0 {
			s.volatility = v
		}
	}
}

// WithSource injects a seedable random source for reproducible runs.
func WithSource(src rand.Source) SimulatorOption {
	return func(s *Simulator) {
		s.rng = rand.New(src)
	}
}

// Simulator turns a deterministic point forecast into a distribution by
// repeated Gaussian perturbation. Not safe for concurrent use; each
// forecasting invocation builds its own.
type Simulator struct {
	trials     int
	volatility float64
	rng        *rand.Rand
}

// NewSimulator creates a Simulator with production defaults.
func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		trials:     DefaultTrials,
		volatility: DefaultVolatility,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// Simulate draws trials samples of base + Normal(0, volatility*base) and
// reduces them to the sample mean and a rough 5th/95th percentile band.
// A zero base collapses the noise scale, so the result is exactly (0, 0, 0).
func (s *Simulator) Simulate(base float64) (mean, p5, p95 float64) {
	if base == 0 {
		return 0, 0, 0
	}

	sigma := s.volatility * base
	samples := make([]float64, s.trials)
	var sum float64
	for i := range samples {
		v := base + s.rng.NormFloat64()*sigma
		samples[i] = v
		sum += v
	}

	sort.Float64s(samples)
	mean = sum / float64(s.trials)
	return mean, percentile(samples, 5), percentile(samples, 95)
}

// percentile interpolates linearly between closest ranks of a sorted sample.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
