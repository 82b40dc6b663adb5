package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-level Prometheus metrics for the application.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
}

// New creates and registers all platform-level Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meetingintel_http_request_duration_seconds",
			Help:    "HTTP request latency by path",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60, 120},
		}, []string{"path"}),
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meetingintel_http_requests_total",
			Help: "Total HTTP requests by path and status code",
		}, []string{"path", "status"}),
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(path, status string, seconds float64) {
	m.RequestDuration.WithLabelValues(path).Observe(seconds)
	m.RequestsTotal.WithLabelValues(path, status).Inc()
}
