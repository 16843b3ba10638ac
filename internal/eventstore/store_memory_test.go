package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store   *InMemory
	metrics *Metrics
	clock   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.clock = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	s.metrics = NewMetrics(prometheus.NewRegistry())
	s.store = NewInMemory(
		WithClock(func() time.Time {
			s.clock = s.clock.Add(time.Second)
			return s.clock
		}),
		WithMetrics(s.metrics),
	)
}

func (s *InMemoryStoreSuite) event(eventType string, payload any) Event {
	e, err := NewEvent(eventType, payload)
	s.Require().NoError(err)
	return e
}

func (s *InMemoryStoreSuite) TestAppend() {
	ctx := context.Background()

	s.Run("first append to a new stream with expected version 0", func() {
		stored, err := s.store.Append(ctx, "stream-a", 0,
			s.event("Created", map[string]string{"name": "a"}),
			s.event("Renamed", map[string]string{"name": "b"}),
		)
		s.Require().NoError(err)
		s.Require().Len(stored, 2)
		s.Equal(int64(1), stored[0].Version)
		s.Equal(int64(2), stored[1].Version)
		s.Equal("stream-a", stored[0].StreamID)
		s.NotEqual(uuid.Nil, stored[0].ID)
		s.Equal(stored[0].Timestamp, stored[1].Timestamp, "a batch shares one timestamp")
	})

	s.Run("store-assigned fields overwrite caller values", func() {
		e := s.event("Created", nil)
		e.StreamID = "other"
		e.Version = 99
		stored, err := s.store.Append(ctx, "stream-b", AnyVersion, e)
		s.Require().NoError(err)
		s.Equal("stream-b", stored[0].StreamID)
		s.Equal(int64(1), stored[0].Version)
	})

	s.Run("caller supplied id is kept", func() {
		e := s.event("Created", nil)
		e.ID = uuid.MustParse("6f1d8c1e-1b7a-4b8e-9d55-0c7f9e6a2c11")
		stored, err := s.store.Append(ctx, "stream-c", AnyVersion, e)
		s.Require().NoError(err)
		s.Equal(e.ID, stored[0].ID)
	})

	s.Run("stale expected version is rejected and nothing is written", func() {
		_, err := s.store.Append(ctx, "stream-a", 1, s.event("Renamed", nil))
		s.Require().Error(err)

		var concErr *ConcurrencyError
		s.Require().ErrorAs(err, &concErr)
		s.Equal("stream-a", concErr.StreamID)
		s.Equal(int64(1), concErr.ExpectedVersion)
		s.Equal(int64(2), concErr.ActualVersion)
		s.True(errors.Is(err, sentinel.ErrConflict))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal("concurrency error on stream stream-a: expected version 1, but was 2", err.Error())

		events, err := s.store.Read(ctx, "stream-a", 0)
		s.Require().NoError(err)
		s.Len(events, 2)
	})

	s.Run("any version skips the check", func() {
		stored, err := s.store.Append(ctx, "stream-a", AnyVersion, s.event("Renamed", nil))
		s.Require().NoError(err)
		s.Equal(int64(3), stored[0].Version)
	})

	s.Run("expected version greater than zero on a missing stream conflicts", func() {
		_, err := s.store.Append(ctx, "stream-missing", 3, s.event("Created", nil))
		var concErr *ConcurrencyError
		s.Require().ErrorAs(err, &concErr)
		s.Equal(int64(0), concErr.ActualVersion)
	})

	s.Run("empty batch creates the stream without events", func() {
		stored, err := s.store.Append(ctx, "stream-empty", 0)
		s.Require().NoError(err)
		s.Empty(stored)

		events, err := s.store.Read(ctx, "stream-empty", 0)
		s.Require().NoError(err)
		s.Empty(events)

		v, err := s.store.Version(ctx, "stream-empty")
		s.Require().NoError(err)
		s.Equal(int64(0), v)
	})

	s.Run("empty stream id is a store error", func() {
		_, err := s.store.Append(ctx, "", AnyVersion, s.event("Created", nil))
		var storeErr *StoreError
		s.Require().ErrorAs(err, &storeErr)
		s.Equal("append", storeErr.Op)
	})

	s.Run("empty event type is a store error", func() {
		_, err := s.store.Append(ctx, "stream-x", AnyVersion, Event{})
		var storeErr *StoreError
		s.Require().ErrorAs(err, &storeErr)

		_, err = s.store.Read(ctx, "stream-x", 0)
		var nfErr *StreamNotFoundError
		s.ErrorAs(err, &nfErr, "a rejected append must not create the stream")
	})

	s.Run("cancelled context is a store error", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.store.Append(cctx, "stream-y", AnyVersion, s.event("Created", nil))
		s.Require().Error(err)
		s.ErrorIs(err, context.Canceled)
	})
}

func (s *InMemoryStoreSuite) TestRead() {
	ctx := context.Background()
	_, err := s.store.Append(ctx, "stream-r", 0,
		s.event("A", nil), s.event("B", nil), s.event("C", nil))
	s.Require().NoError(err)

	s.Run("from version 0 returns the whole stream in order", func() {
		events, err := s.store.Read(ctx, "stream-r", 0)
		s.Require().NoError(err)
		s.Require().Len(events, 3)
		for i, e := range events {
			s.Equal(int64(i+1), e.Version)
		}
		s.Equal("A", events[0].Type)
		s.Equal("C", events[2].Type)
	})

	s.Run("from version returns strictly later events", func() {
		events, err := s.store.Read(ctx, "stream-r", 1)
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal(int64(2), events[0].Version)
	})

	s.Run("from version past the end returns an empty slice", func() {
		events, err := s.store.Read(ctx, "stream-r", 10)
		s.Require().NoError(err)
		s.NotNil(events)
		s.Empty(events)
	})

	s.Run("unknown stream returns StreamNotFoundError", func() {
		_, err := s.store.Read(ctx, "nope", 0)
		var nfErr *StreamNotFoundError
		s.Require().ErrorAs(err, &nfErr)
		s.Equal("nope", nfErr.StreamID)
		s.True(errors.Is(err, sentinel.ErrNotFound))
		s.Equal("stream not found: nope", err.Error())
	})

	s.Run("returned events cannot mutate the store", func() {
		_, err := s.store.Append(ctx, "stream-m", 0, s.event("A", map[string]int{"n": 1}))
		s.Require().NoError(err)

		events, err := s.store.Read(ctx, "stream-m", 0)
		s.Require().NoError(err)
		events[0].Data[0] = 'X'
		events[0].Type = "Mutated"

		again, err := s.store.Read(ctx, "stream-m", 0)
		s.Require().NoError(err)
		s.Equal("A", again[0].Type)
		s.JSONEq(`{"n":1}`, string(again[0].Data))
	})
}

func (s *InMemoryStoreSuite) TestReadAll() {
	ctx := context.Background()

	s.Run("empty store returns an empty slice", func() {
		events, err := s.store.ReadAll(ctx, time.Time{})
		s.Require().NoError(err)
		s.Empty(events)
	})

	_, err := s.store.Append(ctx, "s1", AnyVersion, s.event("A", nil))
	s.Require().NoError(err)
	cutoff := s.clock
	_, err = s.store.Append(ctx, "s2", AnyVersion, s.event("B", nil))
	s.Require().NoError(err)
	_, err = s.store.Append(ctx, "s1", AnyVersion, s.event("C", nil))
	s.Require().NoError(err)

	s.Run("zero time returns every event by timestamp", func() {
		events, err := s.store.ReadAll(ctx, time.Time{})
		s.Require().NoError(err)
		s.Require().Len(events, 3)
		s.Equal([]string{"A", "B", "C"}, []string{events[0].Type, events[1].Type, events[2].Type})
	})

	s.Run("from filters inclusively on timestamp", func() {
		events, err := s.store.ReadAll(ctx, cutoff)
		s.Require().NoError(err)
		s.Require().Len(events, 3)

		events, err = s.store.ReadAll(ctx, cutoff.Add(time.Second))
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal("B", events[0].Type)
	})
}

func (s *InMemoryStoreSuite) TestMetrics() {
	ctx := context.Background()
	_, err := s.store.Append(ctx, "m", 0, s.event("A", nil), s.event("B", nil))
	s.Require().NoError(err)
	_, _ = s.store.Append(ctx, "m", 0, s.event("C", nil))

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Appends.WithLabelValues("ok")))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Appends.WithLabelValues("conflict")))
	s.Equal(float64(2), testutil.ToFloat64(s.metrics.EventsAppended))
}

func (s *InMemoryStoreSuite) TestConcurrentAppendsWithSameExpectedVersion() {
	ctx := context.Background()
	_, err := s.store.Append(ctx, "race", 0, s.event("Opened", nil))
	s.Require().NoError(err)

	const writers = 16
	var wins, conflicts atomic.Int32
	var g errgroup.Group
	for i := range writers {
		g.Go(func() error {
			payload, _ := json.Marshal(map[string]int{"writer": i})
			_, err := s.store.Append(ctx, "race", 1, Event{Type: "Written", Data: payload})
			var concErr *ConcurrencyError
			switch {
			case err == nil:
				wins.Add(1)
			case errors.As(err, &concErr):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	s.Equal(int32(1), wins.Load())
	s.Equal(int32(writers-1), conflicts.Load())

	events, err := s.store.Read(ctx, "race", 0)
	s.Require().NoError(err)
	s.Len(events, 2)
}

func (s *InMemoryStoreSuite) TestConcurrentAppendsKeepVersionsGapless() {
	ctx := context.Background()

	const writers = 8
	const perWriter = 25
	var g errgroup.Group
	for range writers {
		g.Go(func() error {
			for range perWriter {
				if _, err := s.store.Append(ctx, "busy", AnyVersion, Event{Type: "Tick"}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	events, err := s.store.Read(ctx, "busy", 0)
	s.Require().NoError(err)
	s.Require().Len(events, writers*perWriter)
	for i, e := range events {
		s.Equal(int64(i+1), e.Version)
	}
}

func TestEventDecode(t *testing.T) {
	e, err := NewEvent("Created", map[string]string{"name": "a"})
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]string
	if err := e.Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["name"] != "a" {
		t.Fatalf("expected name=a, got %v", out)
	}

	bad := Event{Type: "Broken", Data: json.RawMessage(`{`)}
	if err := bad.Decode(&out); err == nil {
		t.Fatal("expected decode error")
	}
}
