// Package service implements the registration command and query handlers.
//
// Commands reconstruct the current registration by replaying its stream,
// validate the proposal against it, and append the resulting event with the
// observed stream version as expectedVersion. A concurrency conflict means
// another writer got there first; the command reloads and re-validates, so the
// credit limit holds under concurrent selections.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"registrar/internal/eventstore"
	"registrar/internal/registration/metrics"
	"registrar/internal/registration/models"
	id "registrar/pkg/domain"
)

const (
	defaultMaxRetries = 3
	tracerName        = "registrar/internal/registration"
)

// EventStore is the subset of the event log the registration handlers need.
type EventStore interface {
	Append(ctx context.Context, streamID string, expectedVersion int64, events ...eventstore.Event) ([]eventstore.Event, error)
	Read(ctx context.Context, streamID string, fromVersion int64) ([]eventstore.Event, error)
}

// PeriodLookup resolves the registration period of a semester. It returns an
// error matching sentinel.ErrNotFound when the semester has no period.
type PeriodLookup interface {
	Period(ctx context.Context, semesterID id.SemesterID) (*models.RegistrationPeriod, error)
}

type Service struct {
	store       EventStore
	periods     PeriodLookup
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	creditLimit float64
	maxRetries  int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithCreditLimit overrides models.DefaultCreditLimit.
func WithCreditLimit(limit float64) Option {
	return func(s *Service) {
		s.creditLimit = limit
	}
}

// WithMaxRetries bounds how many times a command reloads and re-appends after a
// concurrency conflict. Zero disables retrying.
func WithMaxRetries(n int) Option {
	return func(s *Service) {
		s.maxRetries = n
	}
}

// WithRegistrationPeriods rejects selections made outside the semester's
// active registration period.
func WithRegistrationPeriods(periods PeriodLookup) Option {
	return func(s *Service) {
		s.periods = periods
	}
}

func New(store EventStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("event store is required")
	}

	svc := &Service{
		store:       store,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:      otel.Tracer(tracerName),
		creditLimit: models.DefaultCreditLimit,
		maxRetries:  defaultMaxRetries,
	}

	for _, opt := range opts {
		opt(svc)
	}

	if math.IsNaN(svc.creditLimit) || math.IsInf(svc.creditLimit, 0) || svc.creditLimit <= 0 {
		return nil, fmt.Errorf("credit limit must be positive, got %g", svc.creditLimit)
	}
	if svc.maxRetries < 0 {
		return nil, fmt.Errorf("max retries cannot be negative, got %d", svc.maxRetries)
	}

	return svc, nil
}
