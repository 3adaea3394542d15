package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "holidaze",
			Name:      "api_requests_total",
			Help:      "Holidaze API requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	apiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "holidaze",
			Name:      "api_request_duration_seconds",
			Help:      "Holidaze API request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	botUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "holidaze",
			Name:      "bot_updates_total",
			Help:      "Processed bot updates by kind.",
		},
		[]string{"kind"},
	)

	toasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "holidaze",
			Name:      "toasts_total",
			Help:      "Ephemeral notifications shown, by type.",
		},
		[]string{"type"},
	)

	domainEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "holidaze",
			Name:      "domain_events_total",
			Help:      "Domain events published on the internal bus, by type.",
		},
		[]string{"type"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, apiDuration, botUpdates, toasts, domainEvents)
	})
}

// ObserveAPIRequest records one API call outcome.
func ObserveAPIRequest(endpoint, status string, elapsed time.Duration) {
	apiRequests.WithLabelValues(endpoint, status).Inc()
	apiDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// IncBotUpdate counts a processed update by kind (message, callback).
func IncBotUpdate(kind string) {
	botUpdates.WithLabelValues(kind).Inc()
}

// IncToast counts a shown notification by type (success, error).
func IncToast(toastType string) {
	toasts.WithLabelValues(toastType).Inc()
}

// IncDomainEvent counts one published domain event by type.
func IncDomainEvent(eventType string) {
	domainEvents.WithLabelValues(eventType).Inc()
}
