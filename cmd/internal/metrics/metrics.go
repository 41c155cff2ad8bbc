// Package metrics holds the prometheus collectors for spreadsheet traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	BackendCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheets_backend_calls_total",
		Help: "Spreadsheet API calls by primitive and outcome.",
	}, []string{"op", "outcome"})

	BackendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheets_backend_call_duration_seconds",
		Help:    "Latency of spreadsheet API calls.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 9),
	}, []string{"op"})

	BackendRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheets_backend_retries_total",
		Help: "Retries issued after transient spreadsheet failures.",
	}, []string{"op"})

	AuditFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "audit_log_failures_total",
		Help: "Audit log appends that failed and were dropped.",
	})
)

// ObserveBackendCall records one remote call that started at start.
func ObserveBackendCall(op string, start time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	BackendCalls.WithLabelValues(op, outcome).Inc()
	BackendLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
