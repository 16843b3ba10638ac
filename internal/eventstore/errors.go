package eventstore

import (
	"fmt"

	dErrors "registrar/pkg/domain-errors"
	"registrar/pkg/platform/sentinel"
)

// ConcurrencyError reports that an append carried an expectedVersion that no
// longer matches the stream. Nothing from the batch was appended. Callers
// should reload the stream, re-validate, and retry.
type ConcurrencyError struct {
	StreamID        string
	ExpectedVersion int64
	ActualVersion   int64
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("concurrency error on stream %s: expected version %d, but was %d",
		e.StreamID, e.ExpectedVersion, e.ActualVersion)
}

// Is lets callers match with errors.Is(err, sentinel.ErrConflict).
func (e *ConcurrencyError) Is(target error) bool {
	return target == sentinel.ErrConflict
}

func (e *ConcurrencyError) Code() dErrors.Code {
	return dErrors.CodeConflict
}

// StreamNotFoundError reports a read against a stream that has never been
// appended to. A stream that exists but has no matching events is not an error.
type StreamNotFoundError struct {
	StreamID string
}

func (e *StreamNotFoundError) Error() string {
	return "stream not found: " + e.StreamID
}

// Is lets callers match with errors.Is(err, sentinel.ErrNotFound).
func (e *StreamNotFoundError) Is(target error) bool {
	return target == sentinel.ErrNotFound
}

func (e *StreamNotFoundError) Code() dErrors.Code {
	return dErrors.CodeNotFound
}

// StoreError wraps an unexpected failure of a store operation. It is fatal to
// the current operation and is not retried automatically.
type StoreError struct {
	Op       string
	StreamID string
	Err      error
}

func (e *StoreError) Error() string {
	if e.StreamID == "" {
		return fmt.Sprintf("event store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("event store %s %s: %v", e.Op, e.StreamID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Code() dErrors.Code {
	return dErrors.CodeInternal
}
