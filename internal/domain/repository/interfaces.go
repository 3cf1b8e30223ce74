package repository

import (
	"context"

	"SaleCast/internal/domain/models"
)

// SalesHistory provides read access to recorded sales.
// Implementations must sum duplicate dates and return the series
// sorted ascending by date.
type SalesHistory interface {
	// LoadHistory returns the daily sales series for a product.
	// Returns models.ErrNoHistory when the product has no rows and
	// wraps models.ErrStorageUnavailable when the store cannot be reached.
	LoadHistory(ctx context.Context, productID string) ([]models.Sale, error)
	// LastSaleDates lists each product with its most recent sale date,
	// most recent first.
	LastSaleDates(ctx context.Context) ([]models.ProductActivity, error)
	Health(ctx context.Context) error
}

// SalesSink persists raw sales rows.
type SalesSink interface {
	Store(ctx context.Context, s *models.Sale) error
	StoreBatch(ctx context.Context, sales []*models.Sale) error
	Close() error
}

// Publisher forwards sales rows to a message backend.
type Publisher interface {
	Publish(ctx context.Context, s *models.Sale) error
	PublishBatch(ctx context.Context, sales []*models.Sale) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordForecast(granularity string)
	RecordIngest(backend, productID string)
	RecordError(kind string)
	RecordLastForecast(productID string, value float64)
	RecordLatency(op string, seconds float64)
}
