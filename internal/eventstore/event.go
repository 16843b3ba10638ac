// Package eventstore is the append-only, per-stream ordered event log that
// backs every event-sourced aggregate.
//
// Streams are created implicitly by their first append and are never deleted.
// Each stream carries a version equal to the number of events ever appended to
// it; writers may pass the version they observed as expectedVersion to detect
// lost updates (optimistic concurrency).
package eventstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnyVersion disables the optimistic concurrency check on Append.
const AnyVersion int64 = -1

// Event is a single immutable fact in a stream.
//
// Type and Data are supplied by the producer. ID is generated when empty.
// StreamID, Version and Timestamp are always assigned by the store on append;
// values set by the caller are overwritten.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	StreamID  string          `json:"stream_id"`
	Version   int64           `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent builds an unsaved event whose Data is the JSON encoding of payload.
func NewEvent(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Data: data}, nil
}

// Decode unmarshals the event payload into target.
func (e Event) Decode(target any) error {
	if err := json.Unmarshal(e.Data, target); err != nil {
		return fmt.Errorf("decode %s payload (stream %s v%d): %w", e.Type, e.StreamID, e.Version, err)
	}
	return nil
}

func (e Event) clone() Event {
	if e.Data != nil {
		e.Data = append(json.RawMessage(nil), e.Data...)
	}
	return e
}

func cloneEvents(events []Event) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = e.clone()
	}
	return out
}
