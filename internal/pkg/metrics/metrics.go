package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "potluck_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "potluck_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "potluck_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// 文档存储
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "potluck_store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "collection"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "potluck_store_operation_errors_total",
			Help: "Total number of failed document store operations",
		},
		[]string{"operation", "collection"},
	)

	MongoCommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "potluck_mongo_command_duration_seconds",
			Help:    "Duration of MongoDB wire commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command", "outcome"},
	)

	// 评分
	RatingConflictRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "potluck_rating_conflict_retries_total",
			Help: "Rating aggregate commits retried after a version conflict",
		},
	)

	// 活动事件
	ActivityEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "potluck_activity_events_published_total",
			Help: "Activity events handed to the broker",
		},
		[]string{"type", "outcome"},
	)

	PopularityRecomputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "potluck_popularity_recomputed_total",
			Help: "Recipes processed by the popularity job",
		},
		[]string{"outcome"},
	)

	CatalogCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "potluck_catalog_cache_total",
			Help: "Catalog id-set lookups by cache result",
		},
		[]string{"kind", "result"},
	)
)

// RecordAPIRequest 记录一次 HTTP 请求
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest 请求开始 +1，结束 -1
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStoreOperation 记录一次存储调用
func RecordStoreOperation(operation, collection string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(operation, collection).Inc()
	}
}
