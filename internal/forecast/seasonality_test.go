package forecast

import (
	"math"
	"testing"
	"time"

	"SaleCast/internal/domain/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSeasonalityRatioToMean(t *testing.T) {
	// Week 2 of 2024: Jan 8-14. Week 3: Jan 15-21.
	series := []models.SeriesPoint{
		{Date: day(2024, time.January, 8), Total: 10},
		{Date: day(2024, time.January, 9), Total: 10},
		{Date: day(2024, time.January, 15), Total: 30},
		{Date: day(2024, time.January, 16), Total: 30},
	}
	factors := BuildSeasonality(series)

	if math.Abs(factors[2]-0.5) > 1e-9 {
		t.Fatalf("week 2 factor: got %v want 0.5", factors[2])
	}
	if math.Abs(factors[3]-1.5) > 1e-9 {
		t.Fatalf("week 3 factor: got %v want 1.5", factors[3])
	}
}

func TestSeasonalityWeightedAverageIsOne(t *testing.T) {
	series := []models.SeriesPoint{
		{Date: day(2024, time.March, 4), Total: 3},
		{Date: day(2024, time.March, 5), Total: 7},
		{Date: day(2024, time.March, 11), Total: 20},
		{Date: day(2024, time.March, 18), Total: 1},
		{Date: day(2024, time.March, 19), Total: 9},
	}
	factors := BuildSeasonality(series)

	counts := make(map[int]int)
	for _, p := range series {
		_, w := p.Date.ISOWeek()
		counts[w]++
	}
	var weighted float64
	for w, f := range factors {
		weighted += f * float64(counts[w])
	}
	weighted /= float64(len(series))
	if math.Abs(weighted-1.0) > 1e-9 {
		t.Fatalf("count-weighted factor mean: got %v want 1.0", weighted)
	}
}

func TestSeasonalityZeroMean(t *testing.T) {
	series := []models.SeriesPoint{
		{Date: day(2024, time.May, 1), Total: 0},
		{Date: day(2024, time.May, 2), Total: 0},
	}
	factors := BuildSeasonality(series)
	if len(factors) != 0 {
		t.Fatalf("expected empty map for zero-mean series, got %v", factors)
	}
	if f := SeasonalFactor(factors, day(2024, time.May, 3)); f != 1.0 {
		t.Fatalf("expected neutral factor 1.0, got %v", f)
	}
}

func TestSeasonalFactorDefault(t *testing.T) {
	factors := map[int]float64{10: 2.0}
	if f := SeasonalFactor(factors, day(2024, time.March, 5)); f != 2.0 {
		t.Fatalf("expected mapped factor, got %v", f)
	}
	if f := SeasonalFactor(factors, day(2024, time.August, 5)); f != 1.0 {
		t.Fatalf("expected default factor, got %v", f)
	}
}
