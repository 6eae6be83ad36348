// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// ChatsTotal tracks total chats created, labeled by agent type.
	ChatsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chats_total",
			Help: "Total chats created",
		},
		[]string{"agent_type"},
	)

	// MessagesTotal tracks total messages appended, labeled by role.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_total",
			Help: "Total messages appended to chats",
		},
		[]string{"role"},
	)

	// SendFailuresTotal tracks sends whose reply resolution failed and was
	// absorbed as an error message.
	SendFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "send_failures_total",
			Help: "Total sends resolved with an error message",
		},
	)

	// RepliesPending tracks chats currently awaiting a reply.
	RepliesPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "replies_pending",
			Help: "Chats currently awaiting an assistant reply",
		},
	)

	// ReplyDuration tracks how long reply resolution took, by sender and
	// outcome.
	ReplyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reply_duration_seconds",
			Help:    "Assistant reply resolution duration",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"sender", "status"},
	)

	// FAQFallbacksTotal tracks FAQ requests served from the fixed fallback
	// set because the upstream was unavailable.
	FAQFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "faq_fallbacks_total",
			Help: "FAQ requests served from the fallback set",
		},
	)

	// SessionsActive tracks live session stores.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of active session stores",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordReply records metrics for a resolved reply.
func RecordReply(sender, status string, duration float64) {
	ReplyDuration.WithLabelValues(sender, status).Observe(duration)
}
