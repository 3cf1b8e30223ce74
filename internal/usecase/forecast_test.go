package usecase

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SaleCast/internal/domain/models"
	domrepo "SaleCast/internal/domain/repository"
	"SaleCast/pkg/cache"
)

type stubHistory struct {
	sales []models.Sale
	err   error
	calls int
}

func (s *stubHistory) LoadHistory(_ context.Context, _ string) ([]models.Sale, error) {
	s.calls++
	return s.sales, s.err
}

func (s *stubHistory) LastSaleDates(_ context.Context) ([]models.ProductActivity, error) {
	return nil, nil
}

func (s *stubHistory) Health(_ context.Context) error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordForecast(string)             {}
func (nopMetrics) RecordIngest(string, string)       {}
func (nopMetrics) RecordError(string)                {}
func (nopMetrics) RecordLastForecast(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)     {}

type stubCache struct {
	cache.Service
	m map[string][]byte
}

func newStubCache() *stubCache { return &stubCache{m: make(map[string][]byte)} }

func (c *stubCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.m[key] = b
	return nil
}

func (c *stubCache) Get(_ context.Context, key string, dest interface{}) error {
	b, ok := c.m[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func tenDays(v float64) []models.Sale {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Sale, 10)
	for i := range out {
		out[i] = models.Sale{ProductID: "SKU-1", Date: start.AddDate(0, 0, i), Units: v}
	}
	return out
}

func exactUseCase(h domrepo.SalesHistory, c cache.Service) *ForecastUseCase {
	cfg := DefaultForecastConfig()
	cfg.Volatility = 0 // deterministic
	return NewForecastUseCase(h, c, nopMetrics{}, cfg,
		WithRandSources(func() rand.Source { return rand.NewSource(1) }),
	)
}

func TestForecastForProduct(t *testing.T) {
	uc := exactUseCase(&stubHistory{sales: tenDays(42)}, nil)

	res, err := uc.ForecastForProduct(context.Background(), "SKU-1", domrepo.Daily, 3)
	require.NoError(t, err)

	assert.Equal(t, "SKU-1", res.ProductID)
	assert.Equal(t, "daily", res.Granularity)
	assert.Len(t, res.History, 10)
	require.Len(t, res.Points, 3)
	for i, pt := range res.Points {
		assert.Equal(t, 42.0, pt.Value)
		assert.Equal(t, time.Date(2024, 6, 11+i, 0, 0, 0, 0, time.UTC), pt.Date)
	}
	assert.Equal(t, 42.0, res.Final)
	assert.Equal(t, time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), res.FinalDate)
}

func TestForecastForProductInsufficientHistory(t *testing.T) {
	uc := exactUseCase(&stubHistory{sales: tenDays(5)[:4]}, nil)

	_, err := uc.ForecastForProduct(context.Background(), "SKU-1", domrepo.Daily, 1)
	var ihe *models.InsufficientHistoryError
	require.ErrorAs(t, err, &ihe)
	assert.Equal(t, 7, ihe.Need)
	assert.Equal(t, 4, ihe.Got)
}

func TestForecastForProductNotFound(t *testing.T) {
	uc := exactUseCase(&stubHistory{err: models.ErrNoHistory}, nil)

	_, err := uc.ForecastForProduct(context.Background(), "SKU-404", domrepo.Daily, 1)
	assert.ErrorIs(t, err, models.ErrNoHistory)
}

func TestForecastForProductCacheHit(t *testing.T) {
	history := &stubHistory{sales: tenDays(42)}
	c := newStubCache()
	uc := exactUseCase(history, c)

	first, err := uc.ForecastForProduct(context.Background(), "SKU-1", domrepo.Daily, 2)
	require.NoError(t, err)
	second, err := uc.ForecastForProduct(context.Background(), "SKU-1", domrepo.Daily, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, history.calls, "second call must be served from cache")
	assert.Equal(t, first.Final, second.Final)
	assert.Equal(t, len(first.Points), len(second.Points))
	assert.Contains(t, c.m, cache.GenerateKeyWithParams("forecast", "SKU-1", domrepo.Daily, 2))
}

func TestForecastForSeries(t *testing.T) {
	uc := exactUseCase(&stubHistory{}, nil)

	res, err := uc.ForecastForSeries(context.Background(), tenDays(10), domrepo.Daily, 1)
	require.NoError(t, err)
	assert.Equal(t, models.AdHocProductID, res.ProductID)
	assert.Equal(t, 10.0, res.Final)
}

func TestForecastMonthlyAggregation(t *testing.T) {
	// 14-day span across two months forecast monthly: only 2 aggregated
	// periods, so the forecast must refuse.
	start := time.Date(2024, 4, 24, 0, 0, 0, 0, time.UTC)
	sales := make([]models.Sale, 14)
	for i := range sales {
		sales[i] = models.Sale{ProductID: "SKU-1", Date: start.AddDate(0, 0, i), Units: 1}
	}
	uc := exactUseCase(&stubHistory{sales: sales}, nil)

	_, err := uc.ForecastForProduct(context.Background(), "SKU-1", domrepo.Monthly, 1)
	var ihe *models.InsufficientHistoryError
	require.ErrorAs(t, err, &ihe)
	assert.Equal(t, 2, ihe.Got)

	res, err := uc.ForecastForProduct(context.Background(), "SKU-1", domrepo.Daily, 1)
	require.NoError(t, err)
	assert.Len(t, res.History, 14)
}

func TestForecastStepsMustBePositive(t *testing.T) {
	uc := exactUseCase(&stubHistory{sales: tenDays(1)}, nil)
	_, err := uc.ForecastForProduct(context.Background(), "SKU-1", domrepo.Daily, 0)
	assert.Error(t, err)
}
