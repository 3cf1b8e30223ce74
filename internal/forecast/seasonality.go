package forecast

import (
	"time"

	"SaleCast/internal/domain/models"
)

// BuildSeasonality derives a per-ISO-week multiplicative factor from an
// aggregated series: mean value of the periods falling in that week divided
// by the mean over the whole series. A zero overall mean yields an empty map
// so every lookup falls back to the neutral 1.0 factor.
func BuildSeasonality(series []models.SeriesPoint) map[int]float64 {
	if len(series) == 0 {
		return map[int]float64{}
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	var total float64
	for _, p := range series {
		_, week := p.Date.ISOWeek()
		sums[week] += p.Total
		counts[week]++
		total += p.Total
	}

	overall := total / float64(len(series))
	if overall == 0 {
		return map[int]float64{}
	}

	factors := make(map[int]float64, len(sums))
	for week, sum := range sums {
		factors[week] = (sum / float64(counts[week])) / overall
	}
	return factors
}

// SeasonalFactor looks up the multiplier for a date's ISO week,
// defaulting to 1.0 for weeks absent from history.
func SeasonalFactor(factors map[int]float64, t time.Time) float64 {
	_, week := t.ISOWeek()
	if f, ok := factors[week]; ok {
		return f
	}
	return 1.0
}
