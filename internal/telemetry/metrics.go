package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Errors          *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// registers with the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dhlparcel_requests_total",
				Help: "Total number of DHL API calls by operation and status",
			},
			[]string{"operation", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dhlparcel_request_duration_seconds",
				Help:    "DHL API call duration in seconds by operation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dhlparcel_errors_total",
				Help: "Total DHL API errors by operation and error type",
			},
			[]string{"operation", "error_type"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dhlparcel_http_requests_total",
				Help: "Total HTTP requests served by route and status code",
			},
			[]string{"route", "code"},
		),
	}
}

// RecordRequest records a DHL API call.
func (m *Metrics) RecordRequest(operation, status string, seconds float64) {
	m.RequestsTotal.WithLabelValues(operation, status).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordError records a failed DHL API call.
func (m *Metrics) RecordError(operation, errorType string) {
	m.Errors.WithLabelValues(operation, errorType).Inc()
}

// RecordHTTP records a served HTTP request.
func (m *Metrics) RecordHTTP(route, code string) {
	m.HTTPRequests.WithLabelValues(route, code).Inc()
}
