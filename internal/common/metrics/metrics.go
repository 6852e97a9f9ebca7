// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeDegraded = "degraded"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeSkipped  = "skipped"
)

var (
	TranslationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdata_translations_total",
			Help: "Total number of question to SQL translations by outcome",
		},
		[]string{"provider", "outcome"},
	)

	TranslationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askdata_translation_duration_seconds",
			Help:    "Duration of completion endpoint calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"provider"},
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdata_queries_total",
			Help: "Total number of SQL executions by outcome",
		},
		[]string{"driver", "outcome", "error_code", "error_category"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "askdata_query_duration_seconds",
			Help: "Duration of SQL executions in seconds, connection included",
		},
		[]string{"driver"},
	)

	QueryRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askdata_query_rows",
			Help:    "Rows returned per SQL execution",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"driver"},
	)

	FeedbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askdata_feedback_total",
			Help: "Total number of feedback records by label",
		},
		[]string{"label", "outcome", "error_category"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "askdata_sessions_active",
			Help: "Number of live browser sessions",
		},
	)
)
