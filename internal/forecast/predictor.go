package forecast

import (
	"math"

	"SaleCast/internal/domain/models"
)

// PredictorOption configures Predictor.
type PredictorOption func(*Predictor)

// WithWindow sets the smoothing window.
func WithWindow(w int) PredictorOption {
	return func(p *Predictor) {
		if w > 0 {
			p.window = w
		}
	}
}

// WithSimulator injects the Monte Carlo simulator (seedable in tests).
func WithSimulator(s *Simulator) PredictorOption {
	return func(p *Predictor) {
		p.sim = s
	}
}

// Predictor produces sequential forecasts from an aggregated sales series.
// Smoothed baseline and seasonality factors are computed once at construction
// and read-only afterwards.
type Predictor struct {
	series      []models.SeriesPoint
	window      int
	smoothed    []float64
	seasonality map[int]float64
	sim         *Simulator
}

// NewPredictor builds a predictor over an aggregated series.
func NewPredictor(series []models.SeriesPoint, opts ...PredictorOption) *Predictor {
	p := &Predictor{
		series: series,
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sim == nil {
		p.sim = NewSimulator()
	}

	values := make([]float64, len(series))
	for i, sp := range series {
		values[i] = sp.Total
	}
	p.smoothed = WeightedMovingAverage(values, p.window)
	p.seasonality = BuildSeasonality(series)
	return p
}

// Forecast emits steps sequential forecast points, each step feeding its
// rounded output into the next step's baseline (the compounding rounding is
// deliberate, for reproducible fixtures).
//
// The step unit is always one calendar day, even for monthly or yearly
// aggregated input; callers choosing a coarser granularity get daily-spaced
// forecast dates.
func (p *Predictor) Forecast(steps int) ([]models.ForecastPoint, error) {
	if len(p.series) < models.MinHistory {
		return nil, models.NewInsufficientHistoryError(len(p.series))
	}

	level, ok := LastDefined(p.smoothed)
	if !ok {
		// Series shorter than the window: fall back to the last raw value.
		level = p.series[len(p.series)-1].Total
	}
	date := p.series[len(p.series)-1].Date

	points := make([]models.ForecastPoint, 0, steps)
	for i := 0; i < steps; i++ {
		date = date.AddDate(0, 0, 1)
		adjusted := level * SeasonalFactor(p.seasonality, date)
		mean, p5, p95 := p.sim.Simulate(adjusted)

		value := round2(mean)
		points = append(points, models.ForecastPoint{
			Date:  date,
			Value: value,
			Low:   round2(p5),
			High:  round2(p95),
		})
		level = value
	}
	return points, nil
}

// round2 rounds half away from zero to two decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
