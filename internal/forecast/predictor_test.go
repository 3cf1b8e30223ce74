package forecast

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"SaleCast/internal/domain/models"
)

func constantSeries(start time.Time, n int, v float64) []models.SeriesPoint {
	out := make([]models.SeriesPoint, n)
	for i := range out {
		out[i] = models.SeriesPoint{Date: start.AddDate(0, 0, i), Total: v}
	}
	return out
}

func TestForecastInsufficientHistory(t *testing.T) {
	for _, n := range []int{0, 1, 6} {
		p := NewPredictor(constantSeries(day(2024, time.June, 1), n, 5))
		_, err := p.Forecast(3)
		var ihe *models.InsufficientHistoryError
		if !errors.As(err, &ihe) {
			t.Fatalf("n=%d: expected InsufficientHistoryError, got %v", n, err)
		}
		if ihe.Need != 7 || ihe.Got != n {
			t.Fatalf("n=%d: unexpected error fields %+v", n, ihe)
		}
	}
}

func TestForecastConstantSeries(t *testing.T) {
	// Ten identical daily values; zero volatility makes the run exact.
	series := constantSeries(day(2024, time.June, 1), 10, 42)
	p := NewPredictor(series, WithSimulator(NewSimulator(
		WithTrials(100),
		WithVolatility(0),
		WithSource(rand.NewSource(1)),
	)))

	points, err := p.Forecast(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for i, pt := range points {
		wantDate := day(2024, time.June, 11).AddDate(0, 0, i)
		if !pt.Date.Equal(wantDate) {
			t.Fatalf("point %d date: got %v want %v", i, pt.Date, wantDate)
		}
		if pt.Value != 42 {
			t.Fatalf("point %d value: got %v want 42", i, pt.Value)
		}
	}
}

func TestForecastShortSeriesFallsBackToRawValue(t *testing.T) {
	// 8 periods with a window larger than the series: the whole smoothed
	// sequence is undefined, so the last raw value seeds the level.
	series := constantSeries(day(2024, time.June, 1), 8, 10)
	series[7].Total = 99
	p := NewPredictor(series,
		WithWindow(20),
		WithSimulator(NewSimulator(WithVolatility(0), WithSource(rand.NewSource(1)))),
	)

	points, err := p.Forecast(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// All periods sit in the same ISO weeks as history, factors are not all
	// 1.0 here; assert via the engine's own seasonality instead.
	want := round2(99 * SeasonalFactor(BuildSeasonality(series), day(2024, time.June, 9)))
	if points[0].Value != want {
		t.Fatalf("fallback level: got %v want %v", points[0].Value, want)
	}
}

func TestForecastSequentialFeedback(t *testing.T) {
	series := constantSeries(day(2024, time.July, 1), 14, 100)
	series[13].Total = 50

	mk := func(seed int64) *Predictor {
		return NewPredictor(series, WithSimulator(NewSimulator(
			WithTrials(200),
			WithSource(rand.NewSource(seed)),
		)))
	}

	a, err := mk(7).Forecast(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := mk(7).Forecast(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at step %d: %+v vs %+v", i, a[i], b[i])
		}
	}
	// Values are rounded to two decimals at every step.
	for i, pt := range a {
		if round2(pt.Value) != pt.Value {
			t.Fatalf("step %d not rounded: %v", i, pt.Value)
		}
	}
}

func TestForecastStepUnitIsOneDayForMonthlyInput(t *testing.T) {
	// Monthly aggregation still advances the forecast date by single days.
	series := make([]models.SeriesPoint, 8)
	for i := range series {
		series[i] = models.SeriesPoint{Date: day(2024, time.Month(i+1), 1), Total: 100}
	}
	p := NewPredictor(series, WithSimulator(NewSimulator(WithVolatility(0), WithSource(rand.NewSource(1)))))

	points, err := p.Forecast(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !points[0].Date.Equal(day(2024, time.August, 2)) || !points[1].Date.Equal(day(2024, time.August, 3)) {
		t.Fatalf("expected daily-spaced dates, got %v and %v", points[0].Date, points[1].Date)
	}
}
