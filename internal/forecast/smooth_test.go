package forecast

import (
	"math"
	"testing"
)

func TestWMAConstantSeries(t *testing.T) {
	values := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	out := WeightedMovingAverage(values, 7)
	if len(out) != len(values) {
		t.Fatalf("length mismatch: got %d want %d", len(out), len(values))
	}
	for i, v := range out {
		if i < 6 {
			if !math.IsNaN(v) {
				t.Fatalf("position %d: expected NaN, got %v", i, v)
			}
			continue
		}
		if math.Abs(v-5) > 1e-9 {
			t.Fatalf("position %d: expected 5, got %v", i, v)
		}
	}
}

func TestWMALinearWeights(t *testing.T) {
	out := WeightedMovingAverage([]float64{1, 2, 3}, 2)
	if !math.IsNaN(out[0]) {
		t.Fatalf("position 0 should be undefined")
	}
	// (1*1 + 2*2) / 3
	if math.Abs(out[1]-5.0/3.0) > 1e-9 {
		t.Fatalf("position 1: got %v", out[1])
	}
	// (1*2 + 2*3) / 3
	if math.Abs(out[2]-8.0/3.0) > 1e-9 {
		t.Fatalf("position 2: got %v", out[2])
	}
}

func TestWMAShorterThanWindow(t *testing.T) {
	out := WeightedMovingAverage([]float64{1, 2, 3}, 7)
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Fatalf("position %d: expected NaN for short series, got %v", i, v)
		}
	}
	if _, ok := LastDefined(out); ok {
		t.Fatalf("expected no defined value")
	}
}

func TestLastDefined(t *testing.T) {
	out := WeightedMovingAverage([]float64{1, 2, 3, 4}, 2)
	v, ok := LastDefined(out)
	if !ok {
		t.Fatalf("expected defined value")
	}
	// (1*3 + 2*4) / 3
	if math.Abs(v-11.0/3.0) > 1e-9 {
		t.Fatalf("unexpected last defined %v", v)
	}
}
