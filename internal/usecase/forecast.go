package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"SaleCast/internal/domain/models"
	domrepo "SaleCast/internal/domain/repository"
	"SaleCast/internal/forecast"
	"SaleCast/pkg/cache"
)

// ForecastConfig carries engine tuning knobs resolved from configuration.
type ForecastConfig struct {
	Window     int
	Trials     int
	Volatility float64
	CacheTTL   time.Duration
}

// DefaultForecastConfig returns production defaults.
func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		Window:     forecast.DefaultWindow,
		Trials:     forecast.DefaultTrials,
		Volatility: forecast.DefaultVolatility,
		CacheTTL:   time.Minute,
	}
}

// ForecastUseCase orchestrates history loading, aggregation, and the
// forecasting engine. Each invocation recomputes from the full history;
// results for stored products are cached by (product, granularity, steps).
type ForecastUseCase struct {
	history domrepo.SalesHistory
	cache   cache.Service
	metrics domrepo.Metrics
	cfg     ForecastConfig
	source  func() rand.Source
}

// UseCaseOption configures ForecastUseCase.
type UseCaseOption func(*ForecastUseCase)

// WithRandSources injects a random-source factory for reproducible runs.
func WithRandSources(f func() rand.Source) UseCaseOption {
	return func(uc *ForecastUseCase) { uc.source = f }
}

// NewForecastUseCase creates the forecasting use case. cache may be nil
// (caching disabled).
func NewForecastUseCase(
	history domrepo.SalesHistory,
	c cache.Service,
	metrics domrepo.Metrics,
	cfg ForecastConfig,
	opts ...UseCaseOption,
) *ForecastUseCase {
	if cfg.Window <= 0 {
		cfg.Window = forecast.DefaultWindow
	}
	if cfg.Trials <= 0 {
		cfg.Trials = forecast.DefaultTrials
	}
	uc := &ForecastUseCase{
		history: history,
		cache:   c,
		metrics: metrics,
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ForecastForProduct forecasts from stored history for one product.
func (uc *ForecastUseCase) ForecastForProduct(ctx context.Context, productID string, g domrepo.Granularity, steps int) (*models.ForecastResult, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id required")
	}

	key := cache.GenerateKeyWithParams("forecast", productID, g, steps)
	if uc.cache != nil {
		var cached models.ForecastResult
		if err := uc.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	start := time.Now()
	sales, err := uc.history.LoadHistory(ctx, productID)
	if err != nil {
		uc.metrics.RecordError("load_history")
		return nil, err
	}

	res, err := uc.run(productID, sales, g, steps)
	if err != nil {
		uc.metrics.RecordError("forecast")
		return nil, err
	}
	uc.observe(res, time.Since(start))

	if uc.cache != nil && uc.cfg.CacheTTL > 0 {
		// Best effort; a cold cache only costs recomputation.
		_ = uc.cache.Set(ctx, key, res, uc.cfg.CacheTTL)
	}
	return res, nil
}

// ForecastForSeries forecasts from a caller-supplied raw series
// (e.g. an uploaded CSV). Results are never cached.
func (uc *ForecastUseCase) ForecastForSeries(ctx context.Context, sales []models.Sale, g domrepo.Granularity, steps int) (*models.ForecastResult, error) {
	start := time.Now()
	res, err := uc.run(models.AdHocProductID, sales, g, steps)
	if err != nil {
		uc.metrics.RecordError("forecast")
		return nil, err
	}
	uc.observe(res, time.Since(start))
	return res, nil
}

// ProductActivity lists each known product with its last sale date.
func (uc *ForecastUseCase) ProductActivity(ctx context.Context) ([]models.ProductActivity, error) {
	return uc.history.LastSaleDates(ctx)
}

// Health reports whether the sales store is reachable.
func (uc *ForecastUseCase) Health(ctx context.Context) error {
	return uc.history.Health(ctx)
}

func (uc *ForecastUseCase) run(productID string, sales []models.Sale, g domrepo.Granularity, steps int) (*models.ForecastResult, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", steps)
	}

	aggregated := forecast.Aggregate(sales, g)

	simOpts := []forecast.SimulatorOption{
		forecast.WithTrials(uc.cfg.Trials),
		forecast.WithVolatility(uc.cfg.Volatility),
	}
	if uc.source != nil {
		simOpts = append(simOpts, forecast.WithSource(uc.source()))
	}
	predictor := forecast.NewPredictor(aggregated,
		forecast.WithWindow(uc.cfg.Window),
		forecast.WithSimulator(forecast.NewSimulator(simOpts...)),
	)

	points, err := predictor.Forecast(steps)
	if err != nil {
		return nil, err
	}

	final := points[len(points)-1]
	return &models.ForecastResult{
		ProductID:   productID,
		Granularity: string(g),
		History:     aggregated,
		Points:      points,
		Final:       final.Value,
		FinalDate:   final.Date,
		Low:         final.Low,
		High:        final.High,
	}, nil
}

func (uc *ForecastUseCase) observe(res *models.ForecastResult, d time.Duration) {
	uc.metrics.RecordForecast(res.Granularity)
	uc.metrics.RecordLastForecast(res.ProductID, res.Final)
	uc.metrics.RecordLatency("forecast", d.Seconds())
}
