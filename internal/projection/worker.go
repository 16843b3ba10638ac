package projection

import (
	"context"
	"time"

	"registrar/internal/eventstore"
)

// Worker feeds events from a channel, typically a bus subscription, into an
// engine.
type Worker struct {
	engine *Engine
	inbox  <-chan eventstore.Event
}

func NewWorker(engine *Engine, inbox <-chan eventstore.Event) *Worker {
	return &Worker{engine: engine, inbox: inbox}
}

// Run projects events until ctx is done or the inbox is closed. A closed inbox
// is a clean shutdown and returns nil.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.engine.Project(ctx, event)
		}
	}
}

// AllReader reads the whole event log.
type AllReader interface {
	ReadAll(ctx context.Context, from time.Time) ([]eventstore.Event, error)
}

// Catchup replays every stored event at or after from into engine and returns
// how many were replayed. Use it to rebuild read models, or to cover events a
// slow bus subscriber dropped.
func Catchup(ctx context.Context, engine *Engine, store AllReader, from time.Time) (int, error) {
	events, err := store.ReadAll(ctx, from)
	if err != nil {
		return 0, err
	}
	engine.ProjectAll(ctx, events)
	return len(events), nil
}
