// Package metrics exposes Prometheus collectors for the dispatch service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ClaimAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_claim_attempts_total",
			Help: "Total number of order claim attempts",
		},
	)

	ClaimConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_claim_conflicts_total",
			Help: "Total number of claim attempts that lost the race",
		},
	)

	OrdersCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_orders_completed_total",
			Help: "Total number of deliveries completed with proof of delivery",
		},
	)

	PodArtifactsSavedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_pod_artifacts_saved_total",
			Help: "Total number of proof-of-delivery artifacts persisted",
		},
		[]string{"role_tag"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

// Register adds all dispatch collectors to the given registry.
// Call once at startup.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		ClaimAttemptsTotal,
		ClaimConflictsTotal,
		OrdersCompletedTotal,
		PodArtifactsSavedTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
