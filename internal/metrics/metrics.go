// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the similarity engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts every completed HTTP request by route and
	// status code.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// APIRequestDuration is request latency, end to end.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	// APIActiveRequests is the current number of in-flight requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// APIRateLimitHits counts requests rejected by the rate limiter.
	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// CatalogSize is the number of usable (non-ignored) tracks loaded.
	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_tracks_total",
			Help: "Number of tracks loaded into the feature index",
		},
	)

	// EngineTreeRebuilds counts k-d tree rebuilds triggered by a cache-key
	// miss (match_all_genres, seed primary genre).
	EngineTreeRebuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_tree_rebuilds_total",
			Help: "Total number of k-d tree rebuilds",
		},
	)

	// EngineQueryDuration is the duration of one k-NN query, including any
	// rebuild it triggered.
	EngineQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_query_duration_seconds",
			Help:    "Duration of similarity engine queries in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records one rejected request for endpoint.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordEngineQuery records one k-NN query's duration.
func RecordEngineQuery(duration time.Duration) {
	EngineQueryDuration.Observe(duration.Seconds())
}
