package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счётчики конвейера. Регистрируются в реестре по умолчанию,
// отдаются обработчиком /metrics.
var (
	FeedsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hermes_feeds_fetched_total",
		Help: "Number of RSS feeds fetched successfully.",
	})
	FeedsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hermes_feeds_failed_total",
		Help: "Number of RSS feed fetches that failed.",
	})
	ItemsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hermes_items_extracted_total",
		Help: "Number of items extracted from fetched feeds.",
	})
	BatchesSynthesized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hermes_batches_synthesized_total",
		Help: "Number of batches synthesized by the model.",
	})
	BatchesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hermes_batches_skipped_total",
		Help: "Number of batches skipped after a failed or unparsable completion.",
	})
	NewsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hermes_news_persisted_total",
		Help: "Number of synthesized news rows persisted.",
	})
	SearchesServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hermes_searches_served_total",
		Help: "Number of search requests served.",
	})
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hermes_http_requests_total",
		Help: "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})
)
