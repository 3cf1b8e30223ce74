package forecast

import "math"

// DefaultWindow is the smoothing window used when none is configured.
const DefaultWindow = 7

// WeightedMovingAverage computes a recency-biased moving average over values.
// Weights increase linearly from 1 (oldest in window) to window (most recent).
// The output has the same length as the input; positions with fewer than
// window prior points are NaN.
func WeightedMovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}

	denom := float64(window*(window+1)) / 2
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		var sum float64
		for k := 0; k < window; k++ {
			sum += float64(k+1) * values[i-window+1+k]
		}
		out[i] = sum / denom
	}
	return out
}

// LastDefined returns the last non-NaN value of a smoothed series.
func LastDefined(smoothed []float64) (float64, bool) {
	for i := len(smoothed) - 1; i >= 0; i-- {
		if !math.IsNaN(smoothed[i]) {
			return smoothed[i], true
		}
	}
	return 0, false
}
