// Package projection dispatches stored events to read-side handlers.
//
// The engine is best-effort: a handler that fails or panics is logged and
// counted, and dispatch continues with the next handler and the next event.
// Handlers must therefore be idempotent or tolerate gaps; Catchup can rebuild
// them from the store.
package projection

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"registrar/internal/eventstore"
)

// Handler reacts to the event types it declares.
type Handler interface {
	EventTypes() []string
	Handle(ctx context.Context, event eventstore.Event) error
}

type handlerFunc struct {
	types []string
	fn    func(ctx context.Context, event eventstore.Event) error
}

func (h handlerFunc) EventTypes() []string { return h.types }

func (h handlerFunc) Handle(ctx context.Context, event eventstore.Event) error {
	return h.fn(ctx, event)
}

// HandlerFunc adapts fn into a Handler listening to eventTypes.
func HandlerFunc(fn func(ctx context.Context, event eventstore.Event) error, eventTypes ...string) Handler {
	return handlerFunc{types: eventTypes, fn: fn}
}

type registration struct {
	name    string
	handler Handler
	types   map[string]struct{}
}

func (r registration) accepts(eventType string) bool {
	_, ok := r.types[eventType]
	return ok
}

// Engine routes events to every registered handler whose declared types
// include the event's type, in registration order.
type Engine struct {
	mu       sync.RWMutex
	handlers []registration
	logger   *slog.Logger
	metrics  *Metrics
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register adds a named handler. Names identify handlers in logs and metrics
// and must be unique.
func (e *Engine) Register(name string, handler Handler) error {
	if name == "" {
		return fmt.Errorf("projection handler name is required")
	}
	if handler == nil {
		return fmt.Errorf("projection handler %q is nil", name)
	}

	types := make(map[string]struct{})
	for _, t := range handler.EventTypes() {
		types[t] = struct{}{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if slices.ContainsFunc(e.handlers, func(r registration) bool { return r.name == name }) {
		return fmt.Errorf("projection handler %q already registered", name)
	}
	e.handlers = append(e.handlers, registration{name: name, handler: handler, types: types})
	return nil
}

// Handlers lists registered handler names in dispatch order.
func (e *Engine) Handlers() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, len(e.handlers))
	for i, r := range e.handlers {
		names[i] = r.name
	}
	return names
}

// Project dispatches one event. Handler failures never reach the caller.
func (e *Engine) Project(ctx context.Context, event eventstore.Event) {
	e.mu.RLock()
	targets := make([]registration, 0, len(e.handlers))
	for _, r := range e.handlers {
		if r.accepts(event.Type) {
			targets = append(targets, r)
		}
	}
	e.mu.RUnlock()

	for _, r := range targets {
		e.dispatch(ctx, r, event)
	}
}

// ProjectAll dispatches events one at a time in slice order.
func (e *Engine) ProjectAll(ctx context.Context, events []eventstore.Event) {
	for _, event := range events {
		e.Project(ctx, event)
	}
}

func (e *Engine) dispatch(ctx context.Context, r registration, event eventstore.Event) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			e.metrics.incFailure(r.name, failurePanic)
			e.logger.ErrorContext(ctx, "projection handler panicked",
				"handler", r.name,
				"event_type", event.Type,
				"stream_id", event.StreamID,
				"version", event.Version,
				"panic", fmt.Sprint(rec),
			)
		}
	}()

	err := r.handler.Handle(ctx, event)
	e.metrics.observeDispatch(r.name, event.Type, time.Since(start))
	if err != nil {
		e.metrics.incFailure(r.name, failureError)
		e.logger.ErrorContext(ctx, "projection handler failed",
			"handler", r.name,
			"event_type", event.Type,
			"stream_id", event.StreamID,
			"version", event.Version,
			"error", err,
		)
	}
}
