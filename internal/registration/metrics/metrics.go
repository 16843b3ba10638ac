package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Command outcomes.
const (
	OutcomeAccepted    = "accepted"
	OutcomeDuplicate   = "duplicate"
	OutcomeCreditLimit = "credit_limit"
	OutcomeClosed      = "period_closed"
	OutcomeConflict    = "conflict"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
)

// Metrics provides observability for the registration module.
type Metrics struct {
	// Command outcomes by command and outcome
	CommandOutcome *prometheus.CounterVec

	// Appends retried after a concurrency conflict
	AppendRetries prometheus.Counter

	// Command latency including retries
	CommandLatency *prometheus.HistogramVec

	// Credits accepted per batch
	CreditsAdded prometheus.Histogram
}

// New creates registration metrics registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registrar_registration_command_outcomes_total",
			Help: "Total registration command outcomes by command and outcome",
		}, []string{"command", "outcome"}),

		AppendRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "registrar_registration_append_retries_total",
			Help: "Total appends retried after an optimistic concurrency conflict",
		}),

		CommandLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registrar_registration_command_duration_seconds",
			Help:    "Duration of registration commands including retries",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"command"}),

		CreditsAdded: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "registrar_registration_credits_added",
			Help:    "Credits accepted per course selection batch",
			Buckets: []float64{1, 2, 4, 6, 8, 10, 12, 16, 20, 24},
		}),
	}
}

// IncrementOutcome records a command outcome.
func (m *Metrics) IncrementOutcome(command, outcome string) {
	if m != nil {
		m.CommandOutcome.WithLabelValues(command, outcome).Inc()
	}
}

// IncrementRetries records one append retry.
func (m *Metrics) IncrementRetries() {
	if m != nil {
		m.AppendRetries.Inc()
	}
}

// ObserveCommandLatency records how long a command took.
func (m *Metrics) ObserveCommandLatency(command string, d time.Duration) {
	if m != nil {
		m.CommandLatency.WithLabelValues(command).Observe(d.Seconds())
	}
}

// ObserveCreditsAdded records the credits of an accepted batch.
func (m *Metrics) ObserveCreditsAdded(credits float64) {
	if m != nil {
		m.CreditsAdded.Observe(credits)
	}
}
