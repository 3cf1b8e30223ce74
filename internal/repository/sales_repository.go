package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SaleCast/internal/domain/models"
	domrepo "SaleCast/internal/domain/repository"
	pkgkafka "SaleCast/pkg/kafka"
	applogger "SaleCast/pkg/logger"
)

// ClickHouseSales implements SalesHistory and SalesSink backed by ClickHouse.
type ClickHouseSales struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

// NewClickHouseSales creates the ClickHouse sales repository.
func NewClickHouseSales(db *sql.DB, table string) *ClickHouseSales {
	return &ClickHouseSales{db: db, table: table}
}

// SetLogger injects a structured logger.
func (s *ClickHouseSales) SetLogger(l *applogger.Logger) { s.l = l }

// LoadHistory returns the daily series for a product, duplicate dates summed,
// sorted ascending.
func (s *ClickHouseSales) LoadHistory(ctx context.Context, productID string) ([]models.Sale, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT date, sum(units) AS units
        FROM %s
        WHERE product_id = ?
        GROUP BY date
        ORDER BY date ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, productID)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse load_history query error",
				applogger.String("product_id", productID),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	out := make([]models.Sale, 0, 1024)
	for rows.Next() {
		var (
			date  time.Time
			units float64
		)
		if err := rows.Scan(&date, &units); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse load_history scan error",
					applogger.String("product_id", productID),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, models.Sale{ProductID: productID, Date: date, Units: units})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(out) == 0 {
		return nil, models.ErrNoHistory
	}
	if s.l != nil {
		s.l.Info("clickhouse load_history ok",
			applogger.String("product_id", productID),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// LastSaleDates lists each product with its most recent sale date, most recent first.
func (s *ClickHouseSales) LastSaleDates(ctx context.Context) ([]models.ProductActivity, error) {
	q := fmt.Sprintf(`
        SELECT product_id, max(date) AS last_sale
        FROM %s
        GROUP BY product_id
        ORDER BY last_sale DESC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse last_sale_dates query error", applogger.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var out []models.ProductActivity
	for rows.Next() {
		var a models.ProductActivity
		if err := rows.Scan(&a.ProductID, &a.LastSale); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *ClickHouseSales) Store(ctx context.Context, sale *models.Sale) error {
	q := fmt.Sprintf("INSERT INTO %s (product_id, date, units) VALUES (?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q, sale.ProductID, sale.Date, sale.Units)
	return err
}

func (s *ClickHouseSales) StoreBatch(ctx context.Context, sales []*models.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	// Multi-row VALUES to reduce round-trips; 2000 rows per chunk.
	const chunkSize = 2000
	for start := 0; start < len(sales); start += chunkSize {
		end := start + chunkSize
		if end > len(sales) {
			end = len(sales)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*3)
		for _, sale := range sales[start:end] {
			if sale == nil || sale.ProductID == "" || sale.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?)")
			args = append(args, sale.ProductID, sale.Date, sale.Units)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (product_id, date, units) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseSales) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseSales) Close() error {
	return nil // Managed by pkg
}

var (
	_ domrepo.SalesHistory = (*ClickHouseSales)(nil)
	_ domrepo.SalesSink    = (*ClickHouseSales)(nil)
)

// KafkaSalesPublisher implements Publisher for Kafka.
type KafkaSalesPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSalesPublisher creates a Kafka sales publisher.
func NewKafkaSalesPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaSalesPublisher{producer: producer, topic: topic}
}

func (p *KafkaSalesPublisher) Publish(ctx context.Context, s *models.Sale) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.ProductID), salePayload(s))
}

func (p *KafkaSalesPublisher) PublishBatch(ctx context.Context, sales []*models.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(sales))
	for i, s := range sales {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(s.ProductID),
			Value: salePayload(s),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSalesPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func salePayload(s *models.Sale) map[string]interface{} {
	return map[string]interface{}{
		"product_id": s.ProductID,
		"date":       s.Date.Format("2006-01-02"),
		"units":      s.Units,
	}
}
