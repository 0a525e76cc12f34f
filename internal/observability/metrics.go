package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	adminRequestsTotal  *prometheus.CounterVec
	adminLatencySeconds *prometheus.HistogramVec
	adminErrorsTotal    *prometheus.CounterVec
	catalogLatency      *prometheus.HistogramVec
	catalogCacheTotal   *prometheus.CounterVec
	upvoteTogglesTotal  *prometheus.CounterVec
	moderationTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		catalogLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_list_latency_seconds",
			Help:    "Latency distribution for catalogue list queries.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"catalog"})

		catalogCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_requests_total",
			Help: "Cache hits and misses for catalogue list responses.",
		}, []string{"catalog", "result"})

		upvoteTogglesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "place_upvote_toggles_total",
			Help: "Total number of place upvote toggles, by resulting state.",
		}, []string{"upvoted"})

		moderationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_resolutions_total",
			Help: "Total number of submission approvals and rejections.",
		}, []string{"action", "outcome"})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			catalogLatency,
			catalogCacheTotal,
			upvoteTogglesTotal,
			moderationTotal,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// CatalogLatency exposes the histogram for catalogue list queries.
func CatalogLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return catalogLatency
}

// CatalogCache exposes the hit/miss counter for list caches.
func CatalogCache() *prometheus.CounterVec {
	RegisterMetrics()
	return catalogCacheTotal
}

// UpvoteToggles exposes the counter for place upvote toggles.
func UpvoteToggles() *prometheus.CounterVec {
	RegisterMetrics()
	return upvoteTogglesTotal
}

// ModerationResolutions exposes the counter for submission resolutions.
func ModerationResolutions() *prometheus.CounterVec {
	RegisterMetrics()
	return moderationTotal
}
