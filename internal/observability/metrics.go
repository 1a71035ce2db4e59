package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// UpstreamRequests counts upstream API round trips by endpoint and outcome.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_upstream_requests_total",
		Help: "Total upstream API requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	// UpstreamLatency records upstream request latency by endpoint.
	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "glimpse_upstream_request_latency_seconds",
		Help:    "Upstream API request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// LikeToggles counts like toggle outcomes.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glimpse_like_toggles_total",
		Help: "Total like toggle attempts by outcome",
	}, []string{"outcome"})

	// PostsReconciled counts posts that passed through feed reconciliation.
	PostsReconciled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glimpse_posts_reconciled_total",
		Help: "Total posts emitted by the feed reconciler",
	})

	// PostsFiltered counts soft-deleted posts dropped during reconciliation.
	PostsFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glimpse_posts_filtered_total",
		Help: "Total soft-deleted posts dropped by the feed reconciler",
	})
)

// TrackUpstream returns a function that records latency for an upstream
// endpoint when called (e.g. defer).
func TrackUpstream(endpoint string) func() {
	start := time.Now()
	return func() {
		UpstreamLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}
