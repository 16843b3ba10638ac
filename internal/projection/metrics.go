package projection

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	failureError = "error"
	failurePanic = "panic"
)

// Metrics provides observability for projection dispatch.
type Metrics struct {
	// Events dispatched by handler and event type
	Dispatches *prometheus.CounterVec

	// Handler failures by handler and kind ("error", "panic")
	Failures *prometheus.CounterVec

	// Handler latency by handler
	HandleLatency *prometheus.HistogramVec
}

// NewMetrics registers projection metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_projection_dispatches_total",
			Help: "Total events dispatched to projection handlers",
		}, []string{"handler", "event_type"}),

		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_projection_failures_total",
			Help: "Total projection handler failures by kind",
		}, []string{"handler", "kind"}),

		HandleLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registrar_projection_handle_duration_seconds",
			Help:    "Duration of projection handler calls",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"handler"}),
	}
}

func (m *Metrics) observeDispatch(handler, eventType string, d time.Duration) {
	if m == nil {
		return
	}
	m.Dispatches.WithLabelValues(handler, eventType).Inc()
	m.HandleLatency.WithLabelValues(handler).Observe(d.Seconds())
}

func (m *Metrics) incFailure(handler, kind string) {
	if m != nil {
		m.Failures.WithLabelValues(handler, kind).Inc()
	}
}
