// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is private to the service so tests can read counters back
var Registry = prometheus.NewRegistry()

var (
	// ModerationDecisions counts lifecycle transitions applied by admins
	ModerationDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wildlife",
			Name:      "moderation_decisions_total",
			Help:      "Moderation decisions by entity and action.",
		},
		[]string{"entity", "action"},
	)

	// ConflictsTotal counts conditional writes that lost a race
	ConflictsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wildlife",
			Name:      "write_conflicts_total",
			Help:      "Conditional writes rejected because the record changed.",
		},
		[]string{"entity"},
	)

	// RequestDuration observes HTTP handler latency
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wildlife",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ModerationDecisions,
		ConflictsTotal,
		RequestDuration,
	)
}

// RecordModeration increments the decision counter
func RecordModeration(entity, action string) {
	ModerationDecisions.WithLabelValues(entity, action).Inc()
}

// RecordConflict increments the lost-race counter
func RecordConflict(entity string) {
	ConflictsTotal.WithLabelValues(entity).Inc()
}

// Handler serves the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
