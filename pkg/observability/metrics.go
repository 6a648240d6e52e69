package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/rentdesk/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dialogue collectors on a private registry.
type Metrics struct {
	registry           *prometheus.Registry
	stateEntries       *prometheus.CounterVec
	rejections         *prometheus.CounterVec
	recordsPersisted   *prometheus.CounterVec
	cancelled          prometheus.Counter
	persistenceFailure prometheus.Counter
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stateEntries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentdesk_state_entries_total",
				Help: "Total number of dialogue state entries",
			},
			[]string{"state"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentdesk_rejections_total",
				Help: "Total number of rejected inputs per state",
			},
			[]string{"state"},
		),
		recordsPersisted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rentdesk_records_persisted_total",
				Help: "Total number of rental records appended",
			},
			[]string{"kind"},
		),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rentdesk_conversations_cancelled_total",
			Help: "Total number of cancelled conversations",
		}),
		persistenceFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rentdesk_persistence_failures_total",
			Help: "Total number of failed record appends",
		}),
	}
	m.registry.MustRegister(m.stateEntries, m.rejections, m.recordsPersisted, m.cancelled, m.persistenceFailure)
	return m
}

// Registry exposes the private registry, mostly for tests and gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, e *domain.StateEvent) {
			m.stateEntries.WithLabelValues(string(e.State)).Inc()
		},
		OnInputRejected: func(_ context.Context, e *domain.StateEvent) {
			m.rejections.WithLabelValues(string(e.State)).Inc()
		},
		OnRecordPersisted: func(_ context.Context, e *domain.RecordEvent) {
			m.recordsPersisted.WithLabelValues(string(e.Record.RentalKind)).Inc()
		},
		OnPersistFailed: func(_ context.Context, _ *domain.RecordEvent) {
			m.persistenceFailure.Inc()
		},
		OnCancelled: func(_ context.Context, _ *domain.StateEvent) {
			m.cancelled.Inc()
		},
	}
}
