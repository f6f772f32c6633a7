package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenderflow_quotes_processed_total",
			Help: "Total number of quote pipeline runs by outcome",
		},
		[]string{"status"},
	)

	PipelineFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenderflow_pipeline_failures_total",
			Help: "Total number of pipeline failures by stage",
		},
		[]string{"stage"},
	)

	LineItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenderflow_line_items_total",
			Help: "Total number of quote line items by status",
		},
		[]string{"status"},
	)

	EmbeddingCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenderflow_embedding_cache_total",
			Help: "Embedding memo lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tenderflow_pipeline_duration_seconds",
			Help:    "Duration of a full quote pipeline run in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)
)
