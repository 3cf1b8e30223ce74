package forecast

import (
	"math"
	"math/rand"
	"testing"
)

func TestSimulateMeanStability(t *testing.T) {
	sim := NewSimulator(
		WithTrials(100000),
		WithVolatility(0.1),
		WithSource(rand.NewSource(42)),
	)
	mean, p5, p95 := sim.Simulate(100)

	if math.Abs(mean-100) > 2 {
		t.Fatalf("mean drifted: got %v want 100 +/- 2", mean)
	}
	if !(p5 < mean && mean < p95) {
		t.Fatalf("band does not bracket the mean: p5=%v mean=%v p95=%v", p5, mean, p95)
	}
	// With sigma = 10, the 5th/95th percentiles sit near +/-1.645 sigma.
	if math.Abs(p5-(100-16.45)) > 1 || math.Abs(p95-(100+16.45)) > 1 {
		t.Fatalf("band far from Gaussian expectation: p5=%v p95=%v", p5, p95)
	}
}

func TestSimulateZeroBase(t *testing.T) {
	sim := NewSimulator(WithSource(rand.NewSource(7)))
	mean, p5, p95 := sim.Simulate(0)
	if mean != 0 || p5 != 0 || p95 != 0 {
		t.Fatalf("expected exactly (0, 0, 0), got (%v, %v, %v)", mean, p5, p95)
	}
}

func TestSimulateReproducible(t *testing.T) {
	a := NewSimulator(WithTrials(500), WithSource(rand.NewSource(99)))
	b := NewSimulator(WithTrials(500), WithSource(rand.NewSource(99)))
	am, a5, a95 := a.Simulate(50)
	bm, b5, b95 := b.Simulate(50)
	if am != bm || a5 != b5 || a95 != b95 {
		t.Fatalf("same seed produced different results")
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	cases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{50, 3},
		{100, 5},
		{25, 2},
	}
	for _, c := range cases {
		if got := percentile(sorted, c.p); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("percentile(%v): got %v want %v", c.p, got, c.want)
		}
	}
	if got := percentile([]float64{7}, 95); got != 7 {
		t.Fatalf("single sample: got %v", got)
	}
	if got := percentile(nil, 95); got != 0 {
		t.Fatalf("empty sample: got %v", got)
	}
}
