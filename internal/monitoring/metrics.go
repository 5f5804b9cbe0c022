package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request latency per route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "family_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// mutationsTotal counts member mutations by operation and outcome.
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "family_member_mutations_total",
		Help: "Member add/update/delete operations.",
	}, []string{"operation", "outcome"})

	// syncPushesTotal counts best-effort mirror pushes by outcome.
	syncPushesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "family_sync_pushes_total",
		Help: "Snapshot pushes to the sync mirror.",
	}, []string{"outcome"})
)

// RecordMutation records one engine operation; err nil means success.
func RecordMutation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	mutationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordSyncPush records one mirror push attempt; err nil means delivered.
func RecordSyncPush(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	syncPushesTotal.WithLabelValues(outcome).Inc()
}
