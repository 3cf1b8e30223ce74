package forecast

import (
	"time"

	"SaleCast/internal/domain/models"
	domrepo "SaleCast/internal/domain/repository"
)

// Aggregate resamples a daily sales series to the target granularity,
// summing values inside each calendar bucket. Buckets are labeled by their
// start date and emitted only where data exists; gaps are never zero-filled.
// Input must be sorted ascending with duplicate dates already summed.
func Aggregate(sales []models.Sale, g domrepo.Granularity) []models.SeriesPoint {
	out := make([]models.SeriesPoint, 0, len(sales))
	for _, s := range sales {
		b := bucketStart(s.Date, g)
		if n := len(out); n > 0 && out[n-1].Date.Equal(b) {
			out[n-1].Total += s.Units
			continue
		}
		out = append(out, models.SeriesPoint{Date: b, Total: s.Units})
	}
	return out
}

func bucketStart(t time.Time, g domrepo.Granularity) time.Time {
	switch g {
	case domrepo.Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case domrepo.Yearly:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}
