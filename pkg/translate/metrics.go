package translate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	translationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kotoba_translation_requests_total",
			Help: "Total number of translation requests",
		},
		[]string{"mode", "status"},
	)

	translationRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kotoba_translation_request_duration_seconds",
			Help:    "Duration of translation requests in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"mode", "status"},
	)

	translationRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kotoba_translation_request_size_bytes",
			Help:    "Size of text submitted for translation in bytes",
			Buckets: []float64{16, 64, 256, 1000, 2000, 4000, 8000},
		},
		[]string{"mode"},
	)

	translationResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kotoba_translation_response_size_bytes",
			Help:    "Size of translated text in bytes",
			Buckets: []float64{16, 64, 256, 1000, 2000, 4000, 8000},
		},
		[]string{"mode"},
	)
)

// MetricsCollector records translation metrics for one mode.
type MetricsCollector struct {
	mode string
}

// NewMetricsCollector creates a new metrics collector for a translation mode.
func NewMetricsCollector(mode string) *MetricsCollector {
	return &MetricsCollector{mode: mode}
}

// RecordTranslationRequest records metrics for a translation request.
func (mc *MetricsCollector) RecordTranslationRequest(duration time.Duration, success bool, requestSize, responseSize int) {
	status := "success"
	if !success {
		status = "error"
	}

	translationRequestsTotal.WithLabelValues(mc.mode, status).Inc()
	translationRequestDuration.WithLabelValues(mc.mode, status).Observe(duration.Seconds())
	translationRequestSize.WithLabelValues(mc.mode).Observe(float64(requestSize))
	if success {
		translationResponseSize.WithLabelValues(mc.mode).Observe(float64(responseSize))
	}
}
