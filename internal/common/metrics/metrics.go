// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of webhook requests by outcome",
		},
		[]string{"outcome"},
	)

	SyncPassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_passes_total",
			Help: "Total number of synchronization passes by result",
		},
		[]string{"result"},
	)

	SyncFieldResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_field_results_total",
			Help: "Per-field sync outcomes by sub-resource and status",
		},
		[]string{"resource", "status"},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "sync_duration_seconds",
			Help: "Duration of a full synchronization pass in seconds",
		},
	)

	ATSRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ats_request_duration_seconds",
			Help: "Duration of ATS API requests in seconds",
		},
		[]string{"operation"},
	)

	ATSRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ats_request_errors_total",
			Help: "Total number of failed ATS API requests",
		},
		[]string{"operation"},
	)
)
