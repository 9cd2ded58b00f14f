// Package metrics provides Prometheus metrics for the admin backend (RED + auth + session cache).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookmyshow_admin"

var (
	// HTTPRequestsTotal counts requests by method, route and envelope status_code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route, and envelope status code.",
		},
		[]string{"method", "route", "code"},
	)

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10),
		},
		[]string{"method", "route"},
	)

	// AuthEventsTotal counts auth lifecycle outcomes (login success/failure, logout, ...).
	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Auth lifecycle events by event and outcome.",
		},
		[]string{"event", "outcome"},
	)

	// RevokedTokenRejectionsTotal counts requests rejected because their jti was revoked.
	RevokedTokenRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revoked_token_rejections_total",
			Help:      "Requests rejected because the presented token was revoked.",
		},
	)

	// SessionCacheErrorsTotal counts session cache failures by operation.
	SessionCacheErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_cache_errors_total",
			Help:      "Session cache failures by operation.",
		},
		[]string{"op"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-IP rate limiter, by route.",
		},
		[]string{"route"},
	)
)

// Auth outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// RecordAuth increments AuthEventsTotal.
func RecordAuth(event string, ok bool) {
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeFailed
	}
	AuthEventsTotal.WithLabelValues(event, outcome).Inc()
}
