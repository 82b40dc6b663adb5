package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec
	ProviderDuration prometheus.Histogram
	TranscriptChars  prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		AnalysesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "meetingintel_analyses_total",
			Help: "Total transcript analyses by section and outcome",
		}, []string{"section", "outcome"}),
		ProviderDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "meetingintel_provider_duration_seconds",
			Help:    "Latency of completion provider calls",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		TranscriptChars: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "meetingintel_transcript_chars",
			Help:    "Length distribution of accepted transcripts",
			Buckets: prometheus.ExponentialBuckets(100, 10, 5),
		}),
	}
}

func (m *Metrics) RecordAnalysis(section string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.AnalysesTotal.WithLabelValues(section, outcome).Inc()
}

func (m *Metrics) ObserveProviderCall(seconds float64) {
	m.ProviderDuration.Observe(seconds)
}

func (m *Metrics) ObserveTranscriptLength(chars int) {
	m.TranscriptChars.Observe(float64(chars))
}
