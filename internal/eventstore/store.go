package eventstore

import (
	"context"
	"time"
)

// Store is the event log contract shared by the in-memory store and the bus.
type Store interface {
	Append(ctx context.Context, streamID string, expectedVersion int64, events ...Event) ([]Event, error)
	Read(ctx context.Context, streamID string, fromVersion int64) ([]Event, error)
	ReadAll(ctx context.Context, from time.Time) ([]Event, error)
}

var (
	_ Store = (*InMemory)(nil)
	_ Store = (*Bus)(nil)
)
