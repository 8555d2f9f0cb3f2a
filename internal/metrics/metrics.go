// Package metrics owns the Prometheus collectors of the service. Collectors
// are registered on an injected registry so tests can use a fresh one.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInflight prometheus.Gauge

	// Decisions counts approve/decline attempts by entity, action and outcome.
	Decisions *prometheus.CounterVec
	// Notifications counts outbound Telegram notifications by outcome.
	Notifications *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_inflight",
				Help: "Current number of in-flight HTTP requests.",
			},
		),
		Decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "approval_decisions_total",
				Help: "Approve/decline attempts by entity, action and outcome.",
			},
			[]string{"entity", "action", "outcome"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Outbound notifications by outcome.",
			},
			[]string{"outcome"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.HTTPInflight, m.Decisions, m.Notifications)
	}
	return m
}

func (m *Metrics) ObserveDecision(entity, action, outcome string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(entity, action, outcome).Inc()
}

func (m *Metrics) ObserveNotification(outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(outcome).Inc()
}
