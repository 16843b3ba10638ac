package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"registrar/internal/eventstore"
	"registrar/internal/platform/config"
	"registrar/internal/platform/httpserver"
	"registrar/internal/platform/kafka"
	"registrar/internal/platform/metrics"
	redisclient "registrar/internal/platform/redis"
	"registrar/internal/projection"
	"registrar/internal/projection/readmodel"
	regmetrics "registrar/internal/registration/metrics"
	"registrar/internal/registration/service"
	"registrar/internal/relay"
	httptransport "registrar/internal/transport/http"
)

// app holds every long-lived component of the process. The ops server exposes
// no command surface; registration commands are issued in-process through
// app.registration by an embedding caller.
type app struct {
	logger *slog.Logger

	store        *eventstore.InMemory
	bus          *eventstore.Bus
	inbox        chan eventstore.Event
	engine       *projection.Engine
	enrollments  readmodel.EnrollmentReader
	registration *service.Service

	redis *redisclient.Client
	kafka *kgo.Client

	ops *http.Server
}

func newApp(ctx context.Context, cfg config.Server, logger *slog.Logger) (*app, error) {
	a := &app{logger: logger}
	registry := metrics.New()

	storeMetrics := eventstore.NewMetrics(registry)
	a.store = eventstore.NewInMemory(eventstore.WithMetrics(storeMetrics))
	a.bus = eventstore.NewBus(a.store,
		eventstore.WithSubscriberBuffer(cfg.Projection.Buffer),
		eventstore.WithBusMetrics(storeMetrics),
	)

	a.engine = projection.NewEngine(
		projection.WithLogger(logger),
		projection.WithMetrics(projection.NewMetrics(registry)),
	)

	var checks []httptransport.Check

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if rc != nil {
		a.redis = rc
		enrollments := readmodel.NewRedisEnrollments(rc.Client)
		a.enrollments = enrollments
		if err := a.engine.Register("enrollments", enrollments); err != nil {
			a.close()
			return nil, err
		}
		checks = append(checks, httptransport.Check{Name: "redis", Critical: true, Probe: rc.Health})
		logger.Info("enrollment read model on redis")
	} else {
		enrollments := readmodel.NewEnrollments()
		a.enrollments = enrollments
		if err := a.engine.Register("enrollments", enrollments); err != nil {
			return nil, err
		}
	}

	kc, err := kafka.NewProducer(ctx, cfg.Kafka)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect kafka: %w", err)
	}
	if kc != nil {
		a.kafka = kc
		if err := kafka.EnsureTopic(ctx, kc, cfg.Kafka); err != nil {
			a.close()
			return nil, err
		}
		r, err := relay.New(kc, cfg.Kafka.Topic, relay.WithLogger(logger))
		if err != nil {
			a.close()
			return nil, err
		}
		if err := a.engine.Register("kafka-relay", r); err != nil {
			a.close()
			return nil, err
		}
		checks = append(checks, httptransport.Check{Name: "kafka_relay", Probe: func(context.Context) error {
			if r.Degraded() {
				return errors.New("produce circuit open")
			}
			return nil
		}})
		logger.Info("event relay enabled", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)
	}

	a.registration, err = service.New(a.bus,
		service.WithLogger(logger),
		service.WithMetrics(regmetrics.New(registry)),
		service.WithCreditLimit(cfg.Registration.CreditLimit),
		service.WithMaxRetries(cfg.Registration.MaxAppendRetries),
	)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("build registration service: %w", err)
	}

	opts := []httptransport.Option{
		httptransport.WithLogger(logger),
		httptransport.WithEnrollments(a.enrollments),
	}
	for _, c := range checks {
		opts = append(opts, httptransport.WithCheck(c))
	}
	a.ops = httpserver.New(cfg.OpsAddr, httptransport.NewRouter(httptransport.New(opts...), registry.Handler()))

	// Subscribe before anything can append so the worker sees every event.
	a.inbox = a.bus.Subscribe()
	return a, nil
}

// run serves until ctx is done. Projection and the ops server stop together.
func (a *app) run(ctx context.Context) error {
	replayed, err := projection.Catchup(ctx, a.engine, a.store, time.Time{})
	if err != nil {
		return fmt.Errorf("projection catchup: %w", err)
	}
	a.logger.Info("projections caught up", "events", replayed, "handlers", a.engine.Handlers())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := projection.NewWorker(a.engine, a.inbox).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		a.logger.Info("ops server listening", "addr", a.ops.Addr)
		return httpserver.Run(ctx, a.ops)
	})
	g.Go(func() error {
		<-ctx.Done()
		a.bus.Unsubscribe(a.inbox)
		return nil
	})
	return g.Wait()
}

func (a *app) close() {
	if a.kafka != nil {
		a.kafka.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", "error", err)
		}
	}
}
