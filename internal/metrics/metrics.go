// Package metrics holds the prometheus collectors for the storefront backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glowcart_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glowcart_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Catalog cache
	CatalogCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "glowcart_catalog_cache_hits_total",
			Help: "Catalog reads served from cache",
		},
	)

	CatalogCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "glowcart_catalog_cache_misses_total",
			Help: "Catalog reads that went to the catalog service",
		},
	)

	// Outbound calls to catalog and checkout services
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glowcart_upstream_requests_total",
			Help: "Outbound requests by service and outcome",
		},
		[]string{"service", "outcome"}, // success, failure, rejected
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "glowcart_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"service"},
	)

	// Core
	RecommendationsServed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "glowcart_recommendations_returned",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 2, 3},
		},
	)
)

// RecordAPIRequest records one served API request
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordUpstream records the outcome of an outbound call
func RecordUpstream(service, outcome string) {
	UpstreamRequests.WithLabelValues(service, outcome).Inc()
}
