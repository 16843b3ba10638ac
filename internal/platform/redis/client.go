// Package redis connects the optional enrollment read model to Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"registrar/internal/platform/config"
	dErrors "registrar/pkg/domain-errors"
)

const defaultHealthTimeout = 2 * time.Second

// Client is a go-redis client that can report its own health.
type Client struct {
	*redis.Client
	healthTimeout time.Duration
}

// New connects using cfg and verifies the server answers PING.
// A disabled config yields a nil client and no error.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	c := &Client{Client: redis.NewClient(opts), healthTimeout: defaultHealthTimeout}
	if cfg.DialTimeout > 0 {
		c.healthTimeout = cfg.DialTimeout
	}

	if err := c.Health(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Health pings the server, bounded by the dial timeout. Failures carry
// dErrors.CodeUnavailable.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "redis ping failed")
	}
	return nil
}
