package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feature usage metrics
	BookmarkCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_bookmark_created_total",
		Help: "Total number of bookmarks created.",
	})
	BookmarkDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_bookmark_deleted_total",
		Help: "Total number of bookmarks deleted.",
	})
	RecategorizationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_recategorizations_total",
		Help: "Total number of bookmark re-categorizations.",
	})

	// Categorization subsystem metrics
	CategorizationCallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_categorization_calls_total",
		Help: "Total number of outbound LLM categorization calls.",
	})
	CategorizationCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_categorization_cache_hits_total",
		Help: "Total number of categorization cache hits.",
	})
	CategorizationHeuristicTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_categorization_heuristic_total",
		Help: "Total number of heuristic categorizations (LLM unconfigured).",
	})
	CategorizationFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_categorization_fallbacks_total",
		Help: "Total number of fallback categorizations by reason.",
	}, []string{"reason"}) // reason: rate_limit, invalid_category, low_confidence, call_error
	CategorizationDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "app_categorization_duration_seconds",
		Help:    "Duration of outbound LLM categorization calls in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	// Database metrics
	DBQueryDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"query_type", "repository", "status"})
	DBQueryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "db_query_errors_total",
		Help: "Total number of failed database queries.",
	}, []string{"query_type", "repository"})
)
