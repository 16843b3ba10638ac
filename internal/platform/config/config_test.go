package config

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "registrar/pkg/domain-errors"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"REGISTRAR_OPS_ADDR", "LOG_LEVEL", "LOG_FORMAT", "REGISTRATION_CREDIT_LIMIT",
		"REGISTRATION_MAX_APPEND_RETRIES", "PROJECTION_BUFFER", "REDIS_URL", "KAFKA_BROKERS",
		"KAFKA_EVENTS_TOPIC",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.OpsAddr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 24.0, cfg.Registration.CreditLimit)
	assert.Equal(t, 3, cfg.Registration.MaxAppendRetries)
	assert.Equal(t, 256, cfg.Projection.Buffer)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "registration-events", cfg.Kafka.Topic)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("REGISTRAR_OPS_ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("REGISTRATION_CREDIT_LIMIT", "18.5")
	t.Setenv("REGISTRATION_MAX_APPEND_RETRIES", "0")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("REDIS_READ_TIMEOUT", "750ms")
	t.Setenv("KAFKA_BROKERS", " broker-1:9092, broker-2:9092,,broker-1:9092 ")

	cfg := FromEnv()
	assert.Equal(t, ":9999", cfg.OpsAddr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 18.5, cfg.Registration.CreditLimit)
	assert.Zero(t, cfg.Registration.MaxAppendRetries)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 750*time.Millisecond, cfg.Redis.ReadTimeout)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvIgnoresUnparseableNumbers(t *testing.T) {
	t.Setenv("REGISTRATION_CREDIT_LIMIT", "lots")
	t.Setenv("PROJECTION_BUFFER", "-")
	cfg := FromEnv()
	assert.Equal(t, 24.0, cfg.Registration.CreditLimit)
	assert.Equal(t, 256, cfg.Projection.Buffer)
}

func TestValidate(t *testing.T) {
	valid := func() Server {
		return Server{
			OpsAddr:      ":9090",
			Log:          LogConfig{Level: "info", Format: "json"},
			Registration: RegistrationConfig{CreditLimit: 24, MaxAppendRetries: 3},
			Projection:   ProjectionConfig{Buffer: 16},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Server)
	}{
		{"empty ops addr", func(c *Server) { c.OpsAddr = "" }},
		{"unknown log level", func(c *Server) { c.Log.Level = "trace" }},
		{"unknown log format", func(c *Server) { c.Log.Format = "xml" }},
		{"zero credit limit", func(c *Server) { c.Registration.CreditLimit = 0 }},
		{"NaN credit limit", func(c *Server) { c.Registration.CreditLimit = math.NaN() }},
		{"infinite credit limit", func(c *Server) { c.Registration.CreditLimit = math.Inf(1) }},
		{"negative retries", func(c *Server) { c.Registration.MaxAppendRetries = -1 }},
		{"zero projection buffer", func(c *Server) { c.Projection.Buffer = 0 }},
		{"redis without pool", func(c *Server) { c.Redis = RedisConfig{URL: "redis://x"} }},
		{"kafka without topic", func(c *Server) { c.Kafka = KafkaConfig{Brokers: []string{"b:9092"}, Partitions: 1, ReplicationFactor: 1} }},
		{"kafka without partitions", func(c *Server) { c.Kafka = KafkaConfig{Brokers: []string{"b:9092"}, Topic: "t", ReplicationFactor: 1} }},
		{"kafka partitions overflow int32", func(c *Server) {
			c.Kafka = KafkaConfig{Brokers: []string{"b:9092"}, Topic: "t", Partitions: math.MaxInt32 + 1, ReplicationFactor: 1}
		}},
		{"kafka replication overflow int16", func(c *Server) {
			c.Kafka = KafkaConfig{Brokers: []string{"b:9092"}, Topic: "t", Partitions: 1, ReplicationFactor: math.MaxInt16 + 1}
		}},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestFromEnvNonFiniteCreditLimitFailsValidation(t *testing.T) {
	for _, raw := range []string{"NaN", "+Inf", "-Inf"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("REGISTRATION_CREDIT_LIMIT", raw)
			err := FromEnv().Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestFromEnvOversizedPartitionsFailValidation(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "b:9092")
	t.Setenv("KAFKA_TOPIC_PARTITIONS", "4294967297")

	cfg := FromEnv()
	assert.Equal(t, 4294967297, cfg.Kafka.Partitions)
	require.Error(t, cfg.Validate())
}
