package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics. Registered together with the embedding metrics.
var (
	EngineBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studyrec",
			Name:      "engine_builds_total",
			Help:      "Similarity index build attempts by catalog, strategy and outcome",
		},
		[]string{"catalog", "strategy", "status"},
	)

	EngineStrategy = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "studyrec",
			Name:      "engine_strategy",
			Help:      "Set to 1 for the strategy serving each catalog",
		},
		[]string{"catalog", "strategy"},
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "studyrec",
			Name:      "retrieval_duration_seconds",
			Help:      "Index retrieval duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"catalog", "strategy"},
	)

	RecommendationFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "studyrec",
			Name:      "recommendation_fallbacks_total",
			Help:      "Requests answered from the fixed fallback instead of ranked results",
		},
		[]string{"catalog", "reason"},
	)
)
