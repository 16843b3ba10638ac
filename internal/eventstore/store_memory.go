package eventstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	errEmptyStreamID  = errors.New("stream id cannot be empty")
	errEmptyEventType = errors.New("event type cannot be empty")
)

// InMemory is an append-only event log held in process memory.
//
// A single RWMutex guards the log and the stream version map, so appends to
// the same stream are linearized and a batch is either written entirely or not
// at all. Instances are independent; create one per process or per test.
type InMemory struct {
	mu       sync.RWMutex
	log      []Event
	streams  map[string][]Event
	versions map[string]int64

	now     func() time.Time
	newID   func() uuid.UUID
	metrics *Metrics
}

// Option configures an InMemory store.
type Option func(s *InMemory)

// WithClock overrides the clock used to stamp appended events.
func WithClock(now func() time.Time) Option {
	return func(s *InMemory) {
		s.now = now
	}
}

// WithIDGenerator overrides how event IDs are generated.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *InMemory) {
		s.newID = newID
	}
}

// WithMetrics attaches store metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *InMemory) {
		s.metrics = m
	}
}

// NewInMemory creates an empty store.
func NewInMemory(opts ...Option) *InMemory {
	s := &InMemory{
		streams:  make(map[string][]Event),
		versions: make(map[string]int64),
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append writes events to the end of streamID and returns them as stored.
//
// When expectedVersion is not AnyVersion it must equal the stream's current
// version (0 for a stream that does not exist yet), otherwise a
// *ConcurrencyError is returned and nothing is written. Appending zero events
// still creates the stream.
func (s *InMemory) Append(ctx context.Context, streamID string, expectedVersion int64, events ...Event) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		s.metrics.incAppend("error", 0)
		return nil, &StoreError{Op: "append", StreamID: streamID, Err: err}
	}
	if streamID == "" {
		s.metrics.incAppend("error", 0)
		return nil, &StoreError{Op: "append", Err: errEmptyStreamID}
	}
	for _, e := range events {
		if e.Type == "" {
			s.metrics.incAppend("error", 0)
			return nil, &StoreError{Op: "append", StreamID: streamID, Err: errEmptyEventType}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.versions[streamID]
	if expectedVersion != AnyVersion && expectedVersion != current {
		s.metrics.incAppend("conflict", 0)
		return nil, &ConcurrencyError{
			StreamID:        streamID,
			ExpectedVersion: expectedVersion,
			ActualVersion:   current,
		}
	}

	now := s.now()
	stored := make([]Event, len(events))
	for i, e := range events {
		e = e.clone()
		if e.ID == uuid.Nil {
			e.ID = s.newID()
		}
		e.StreamID = streamID
		e.Version = current + int64(i) + 1
		e.Timestamp = now
		stored[i] = e
	}

	s.log = append(s.log, stored...)
	s.streams[streamID] = append(s.streams[streamID], stored...)
	s.versions[streamID] = current + int64(len(stored))

	s.metrics.incAppend("ok", len(stored))
	return cloneEvents(stored), nil
}

// Read returns the events of streamID with a version greater than fromVersion
// in ascending version order. A stream that was never appended to yields a
// *StreamNotFoundError.
func (s *InMemory) Read(ctx context.Context, streamID string, fromVersion int64) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Op: "read", StreamID: streamID, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.versions[streamID]; !ok {
		return nil, &StreamNotFoundError{StreamID: streamID}
	}

	// Versions are contiguous from 1, so version v lives at index v-1.
	events := s.streams[streamID]
	if fromVersion < 0 {
		fromVersion = 0
	}
	if fromVersion >= int64(len(events)) {
		return []Event{}, nil
	}
	return cloneEvents(events[fromVersion:]), nil
}

// ReadAll returns every event recorded at or after from, across all streams,
// ordered by store timestamp. A zero from returns the whole log. Events that
// share a timestamp have no guaranteed relative order.
func (s *InMemory) ReadAll(ctx context.Context, from time.Time) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreError{Op: "read_all", Err: err}
	}

	s.mu.RLock()
	out := make([]Event, 0, len(s.log))
	for _, e := range s.log {
		if from.IsZero() || !e.Timestamp.Before(from) {
			out = append(out, e.clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Version returns the current version of streamID, or a *StreamNotFoundError.
func (s *InMemory) Version(ctx context.Context, streamID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &StoreError{Op: "version", StreamID: streamID, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.versions[streamID]
	if !ok {
		return 0, &StreamNotFoundError{StreamID: streamID}
	}
	return v, nil
}
