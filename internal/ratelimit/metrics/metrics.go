package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChecksTotal *prometheus.CounterVec
	StoreErrors prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meetingintel_ratelimit_checks_total",
			Help: "Total rate limit checks by outcome (allowed, denied)",
		}, []string{"outcome"}),
		StoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "meetingintel_ratelimit_store_errors_total",
			Help: "Total rate limit store failures (checks fail open)",
		}),
	}
}

func (m *Metrics) RecordCheck(allowed bool) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.ChecksTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordStoreError() {
	m.StoreErrors.Inc()
}
