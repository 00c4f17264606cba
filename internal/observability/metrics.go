package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded for external requests.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// ExternalRequests counts calls to third-party APIs by source and outcome.
	ExternalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moviepicker_external_requests_total",
		Help: "Total number of external API requests by source and outcome",
	}, []string{"source", "outcome"})

	// ExternalRequestDuration records external API latency by source.
	ExternalRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moviepicker_external_request_duration_seconds",
		Help:    "External API request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moviepicker_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// ModerationDecisions counts approve/reject actions that changed a comment.
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moviepicker_moderation_decisions_total",
		Help: "Total number of moderation decisions by action",
	}, []string{"action"})
)

// TrackExternal returns a function that records latency and outcome for one
// external call when invoked with the call's outcome.
func TrackExternal(source string) func(outcome string) {
	start := time.Now()
	return func(outcome string) {
		ExternalRequestDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
		ExternalRequests.WithLabelValues(source, outcome).Inc()
	}
}
