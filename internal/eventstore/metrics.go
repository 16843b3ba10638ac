package eventstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the event store and bus.
type Metrics struct {
	// Append attempts by outcome: "ok", "conflict", "error"
	Appends *prometheus.CounterVec

	// Events written across all streams
	EventsAppended prometheus.Counter

	// Bus deliveries dropped because a subscriber was behind
	BusDropped prometheus.Counter
}

// NewMetrics registers event store metrics on reg. A nil reg creates
// unregistered collectors, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Appends: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_eventstore_appends_total",
			Help: "Total append attempts by outcome",
		}, []string{"outcome"}),

		EventsAppended: factory.NewCounter(prometheus.CounterOpts{
			Name: "registrar_eventstore_events_appended_total",
			Help: "Total number of events appended across all streams",
		}),

		BusDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "registrar_eventstore_bus_dropped_total",
			Help: "Total number of bus deliveries dropped because a subscriber was full",
		}),
	}
}

func (m *Metrics) incAppend(outcome string, events int) {
	if m == nil {
		return
	}
	m.Appends.WithLabelValues(outcome).Inc()
	if events > 0 {
		m.EventsAppended.Add(float64(events))
	}
}

func (m *Metrics) incBusDropped() {
	if m != nil {
		m.BusDropped.Inc()
	}
}
