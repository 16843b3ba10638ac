package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrar/internal/platform/config"
	dErrors "registrar/pkg/domain-errors"
)

func TestNew(t *testing.T) {
	t.Run("empty url disables redis", func(t *testing.T) {
		client, err := New(context.Background(), config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("malformed url is an error", func(t *testing.T) {
		_, err := New(context.Background(), config.RedisConfig{URL: "://nope", PoolSize: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse redis URL")
	})
}

func TestHealthUnreachable(t *testing.T) {
	client := &Client{
		Client:        redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond}),
		healthTimeout: 100 * time.Millisecond,
	}
	t.Cleanup(func() { _ = client.Close() })

	err := client.Health(context.Background())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}
