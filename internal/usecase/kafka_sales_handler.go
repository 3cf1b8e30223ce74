package usecase

import (
	"context"
	"encoding/json"
	"time"

	"SaleCast/internal/domain/models"
	domrepo "SaleCast/internal/domain/repository"
	pkgkafka "SaleCast/pkg/kafka"
)

// KafkaSalesHandler consumes sales events from Kafka and writes to storage.
type KafkaSalesHandler struct {
	topic   string
	sink    domrepo.SalesSink
	metrics domrepo.Metrics
}

func NewKafkaSalesHandler(topic string, sink domrepo.SalesSink, metrics domrepo.Metrics) *KafkaSalesHandler {
	return &KafkaSalesHandler{topic: topic, sink: sink, metrics: metrics}
}

func (h *KafkaSalesHandler) Topic() string { return h.topic }

// incoming message schema: {product_id, date, units}
func (h *KafkaSalesHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		ProductID string  `json:"product_id"`
		Date      string  `json:"date"`
		Units     float64 `json:"units"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	date, err := time.Parse("2006-01-02", m.Date)
	if err != nil {
		h.metrics.RecordError("consumer_date")
		return err
	}

	start := time.Now()
	err = h.sink.Store(ctx, &models.Sale{
		ProductID: m.ProductID,
		Date:      date,
		Units:     m.Units,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordIngest("clickhouse", m.ProductID)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSalesHandler)(nil)
