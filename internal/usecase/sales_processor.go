package usecase

import (
	"context"
	"fmt"
	"time"

	"SaleCast/internal/domain/models"
	drepo "SaleCast/internal/domain/repository"
)

// SalesProcessor routes incoming sales rows to the configured backend:
// "kafka" publishes to the sales topic, "clickhouse" writes directly.
type SalesProcessor struct {
	pub     drepo.Publisher
	sink    drepo.SalesSink
	metrics drepo.Metrics
	backend string
}

// NewSalesProcessor creates a new SalesProcessor instance.
func NewSalesProcessor(
	pub drepo.Publisher,
	sink drepo.SalesSink,
	metrics drepo.Metrics,
	backend string,
) *SalesProcessor {
	return &SalesProcessor{
		pub:     pub,
		sink:    sink,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single sales row to the configured backend.
func (p *SalesProcessor) Process(ctx context.Context, s *models.Sale) error {
	if s == nil {
		return fmt.Errorf("sale is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, s)
	case "clickhouse":
		err = p.sink.Store(ctx, s)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process sale: %w", err)
	}

	p.metrics.RecordIngest(p.backend, s.ProductID)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple sales rows in a batch.
func (p *SalesProcessor) ProcessBatch(ctx context.Context, sales []*models.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, sales)
	case "clickhouse":
		err = p.sink.StoreBatch(ctx, sales)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, s := range sales {
		p.metrics.RecordIngest(p.backend, s.ProductID)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *SalesProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.sink != nil {
		_ = p.sink.Close()
	}
}
