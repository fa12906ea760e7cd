package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts connect outcomes for operational visibility.
type Metrics struct {
	connectAttempts *prometheus.CounterVec
	webhookEvents   *prometheus.CounterVec
}

// Connect outcome label values.
const (
	OutcomeCreated  = "created"
	OutcomeReused   = "reused"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// NewMetrics registers the service metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		connectAttempts: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_connect_attempts_total",
			Help: "Connect attempts by outcome.",
		}, []string{"outcome"}),
		webhookEvents: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_webhook_events_total",
			Help: "Webhook deliveries by topic.",
		}, []string{"topic"}),
	}
}

func (m *Metrics) ObserveConnect(outcome string) {
	if m == nil {
		return
	}
	m.connectAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveWebhook(topic string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(topic).Inc()
}
