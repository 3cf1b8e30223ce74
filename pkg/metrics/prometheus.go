package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	forecastsTotal *prometheus.CounterVec
	ingestedTotal  *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastForecast   *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		forecastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salecast_forecasts_total",
				Help: "Total number of forecasts computed",
			},
			[]string{"granularity"},
		),
		ingestedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salecast_ingested_total",
				Help: "Total number of sale records sent to backend",
			},
			[]string{"backend", "product"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salecast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastForecast: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "salecast_last_forecast",
				Help: "Last headline forecast value for a product",
			},
			[]string{"product"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "salecast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordForecast records a completed forecast for a granularity.
func (r *Recorder) RecordForecast(granularity string) {
	r.forecastsTotal.WithLabelValues(granularity).Inc()
}

// RecordIngest records a sale record sent to a backend.
func (r *Recorder) RecordIngest(backend, productID string) {
	r.ingestedTotal.WithLabelValues(backend, productID).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastForecast records the latest headline forecast for a product.
func (r *Recorder) RecordLastForecast(productID string, value float64) {
	r.lastForecast.WithLabelValues(productID).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
