// Package relay publishes registration events to Kafka for consumers outside
// this process, such as the academic record context.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"registrar/internal/eventstore"
	"registrar/internal/registration/models"
	"registrar/pkg/platform/circuit"
)

const (
	headerEventType = "event_type"
	headerEventID   = "event_id"
)

// Producer is the subset of *kgo.Client the relay uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Relay is a projection handler that forwards each event as one Kafka record
// keyed by stream id, so a stream's events stay ordered within a partition.
type Relay struct {
	producer Producer
	topic    string
	types    []string
	logger   *slog.Logger
	breaker  *circuit.Breaker
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// WithBreaker replaces the default breaker that tracks broker health.
func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Relay) {
		if b != nil {
			r.breaker = b
		}
	}
}

// WithEventTypes overrides which event types are relayed.
func WithEventTypes(types ...string) Option {
	return func(r *Relay) {
		r.types = types
	}
}

func New(producer Producer, topic string, opts ...Option) (*Relay, error) {
	if producer == nil {
		return nil, fmt.Errorf("kafka producer is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("relay topic is required")
	}

	r := &Relay{
		producer: producer,
		topic:    topic,
		types:    []string{models.EventTypeCoursesSelected},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		breaker:  circuit.New("kafka-relay", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(3)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Relay) EventTypes() []string {
	return r.types
}

// Handle produces event synchronously. The whole stored envelope is the record
// value so consumers see the same id, version and timestamp as the store.
func (r *Relay) Handle(ctx context.Context, event eventstore.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}

	record := &kgo.Record{
		Topic: r.topic,
		Key:   []byte(event.StreamID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: headerEventType, Value: []byte(event.Type)},
			{Key: headerEventID, Value: []byte(event.ID.String())},
		},
	}

	if err := r.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		if _, change := r.breaker.RecordFailure(); change.Opened {
			r.logger.WarnContext(ctx, "relay circuit opened", "breaker", r.breaker.Name(), "topic", r.topic, "error", err)
		}
		return fmt.Errorf("produce event %s to %s: %w", event.ID, r.topic, err)
	}
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "relay circuit closed", "breaker", r.breaker.Name(), "topic", r.topic)
	}

	r.logger.DebugContext(ctx, "event relayed",
		"topic", r.topic,
		"stream_id", event.StreamID,
		"version", event.Version,
		"event_type", event.Type,
	)
	return nil
}

// Degraded reports whether recent produces have been failing.
func (r *Relay) Degraded() bool {
	return r.breaker.IsOpen()
}
