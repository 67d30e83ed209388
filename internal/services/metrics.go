package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	SynthesisRequests prometheus.Counter
	SynthesisLatency  prometheus.Histogram
	SynthesisQuality  prometheus.Gauge
	SynthesisFailures prometheus.Counter

	VoiceInputs    *prometheus.CounterVec
	Transcriptions *prometheus.CounterVec

	StoreErrors *prometheus.CounterVec
}

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	return &Metrics{
		SynthesisRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vibecode_synthesis_requests_total",
			Help: "Total number of context synthesis requests",
		}),

		SynthesisLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vibecode_synthesis_duration_seconds",
			Help:    "Context synthesis latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		}),

		SynthesisQuality: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vibecode_synthesis_quality_score",
			Help: "Quality score of the most recent synthesis",
		}),

		SynthesisFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vibecode_synthesis_failures_total",
			Help: "Total number of syntheses that degraded to the minimal default",
		}),

		VoiceInputs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vibecode_voice_inputs_total",
			Help: "Total number of processed voice inputs by intent",
		}, []string{"intent"}),

		Transcriptions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vibecode_transcriptions_total",
			Help: "Total number of transcription calls by outcome",
		}, []string{"outcome"}),

		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vibecode_store_errors_total",
			Help: "Total number of memory store failures by operation",
		}, []string{"operation"}),
	}
}
