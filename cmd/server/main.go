package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"registrar/internal/platform/config"
	"registrar/internal/platform/logger"
)

// main loads configuration, builds the app and runs it until SIGINT/SIGTERM.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.close()

	log.Info("starting registrar",
		"ops_addr", cfg.OpsAddr,
		"credit_limit", cfg.Registration.CreditLimit,
		"redis", cfg.Redis.Enabled(),
		"kafka", cfg.Kafka.Enabled(),
	)

	if err := a.run(ctx); err != nil {
		log.Error("server stopped", "error", err)
		stop()
		a.close()
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
