package eventstore

import (
	"context"
	"sync"
)

const defaultSubscriberBuffer = 64

// Bus wraps a Store with in-process fan-out notification. After a successful
// Append every subscriber receives the stored events in append order.
//
// Appends through the bus are serialized so that subscribers observe events in
// the same order the store recorded them. A subscriber that is behind misses
// events rather than blocking writers; it can recover with ReadAll.
type Bus struct {
	Store

	appendMu sync.Mutex
	mu       sync.RWMutex
	subs     map[chan Event]struct{}
	buffer   int
	metrics  *Metrics
}

// BusOption configures a Bus.
type BusOption func(b *Bus)

// WithSubscriberBuffer sets the channel capacity handed to each subscriber.
func WithSubscriberBuffer(n int) BusOption {
	return func(b *Bus) {
		if n > 0 {
			b.buffer = n
		}
	}
}

// WithBusMetrics attaches metrics for dropped deliveries.
func WithBusMetrics(m *Metrics) BusOption {
	return func(b *Bus) {
		b.metrics = m
	}
}

// NewBus creates a Bus wrapping store.
func NewBus(store Store, opts ...BusOption) *Bus {
	b := &Bus{
		Store:  store,
		subs:   make(map[chan Event]struct{}),
		buffer: defaultSubscriberBuffer,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Append delegates to the underlying store, then fans out to all subscribers.
func (b *Bus) Append(ctx context.Context, streamID string, expectedVersion int64, events ...Event) ([]Event, error) {
	b.appendMu.Lock()
	defer b.appendMu.Unlock()

	stored, err := b.Store.Append(ctx, streamID, expectedVersion, events...)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	for ch := range b.subs {
		for _, e := range stored {
			select {
			case ch <- e.clone():
			default:
				b.metrics.incBusDropped()
			}
		}
	}
	b.mu.RUnlock()

	return stored, nil
}

// Subscribe returns a buffered channel that receives all new events.
func (b *Bus) Subscribe() chan Event {
	ch := make(chan Event, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Unsubscribing the
// same channel twice is a no-op.
func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; !ok {
		return
	}
	delete(b.subs, ch)
	close(ch)
}
