// Package config reads process configuration from the environment so main
// stays lean. Every setting has a development default; Validate rejects
// combinations the process cannot run with.
package config

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	dErrors "registrar/pkg/domain-errors"
	textutil "registrar/pkg/platform/strings"
)

// Server captures the process level configuration.
type Server struct {
	OpsAddr      string
	Log          LogConfig
	Registration RegistrationConfig
	Projection   ProjectionConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type RegistrationConfig struct {
	CreditLimit      float64
	MaxAppendRetries int
}

type ProjectionConfig struct {
	// Channel capacity of the bus subscription feeding projections
	Buffer int
}

// RedisConfig configures the optional Redis enrollment read model. An empty
// URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional event relay. No brokers disables it.
type KafkaConfig struct {
	Brokers           []string
	Topic             string
	ClientID          string
	Partitions        int
	ReplicationFactor int
}

// Enabled reports whether Redis is configured.
func (c RedisConfig) Enabled() bool { return c.URL != "" }

// Enabled reports whether the Kafka relay is configured.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		OpsAddr: envString("REGISTRAR_OPS_ADDR", ":9090"),
		Log: LogConfig{
			Level:  strings.ToLower(envString("LOG_LEVEL", "info")),
			Format: strings.ToLower(envString("LOG_FORMAT", "json")),
		},
		Registration: RegistrationConfig{
			CreditLimit:      envFloat("REGISTRATION_CREDIT_LIMIT", 24),
			MaxAppendRetries: envInt("REGISTRATION_MAX_APPEND_RETRIES", 3),
		},
		Projection: ProjectionConfig{
			Buffer: envInt("PROJECTION_BUFFER", 256),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           envList("KAFKA_BROKERS"),
			Topic:             envString("KAFKA_EVENTS_TOPIC", "registration-events"),
			ClientID:          envString("KAFKA_CLIENT_ID", "registrar"),
			Partitions:        envInt("KAFKA_TOPIC_PARTITIONS", 3),
			ReplicationFactor: envInt("KAFKA_TOPIC_REPLICATION", 1),
		},
	}
}

// Validate checks the configuration is usable.
func (c Server) Validate() error {
	if c.OpsAddr == "" {
		return dErrors.New(dErrors.CodeValidation, "REGISTRAR_OPS_ADDR cannot be empty")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return dErrors.New(dErrors.CodeValidation, "LOG_LEVEL must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return dErrors.New(dErrors.CodeValidation, "LOG_FORMAT must be json or text")
	}
	if limit := c.Registration.CreditLimit; math.IsNaN(limit) || math.IsInf(limit, 0) || limit <= 0 {
		return dErrors.New(dErrors.CodeValidation, "REGISTRATION_CREDIT_LIMIT must be a positive finite number")
	}
	if c.Registration.MaxAppendRetries < 0 {
		return dErrors.New(dErrors.CodeValidation, "REGISTRATION_MAX_APPEND_RETRIES cannot be negative")
	}
	if c.Projection.Buffer <= 0 {
		return dErrors.New(dErrors.CodeValidation, "PROJECTION_BUFFER must be positive")
	}
	if c.Redis.Enabled() && c.Redis.PoolSize <= 0 {
		return dErrors.New(dErrors.CodeValidation, "REDIS_POOL_SIZE must be positive")
	}
	if c.Kafka.Enabled() {
		if c.Kafka.Topic == "" {
			return dErrors.New(dErrors.CodeValidation, "KAFKA_EVENTS_TOPIC cannot be empty when KAFKA_BROKERS is set")
		}
		if c.Kafka.Partitions <= 0 || c.Kafka.Partitions > math.MaxInt32 {
			return dErrors.New(dErrors.CodeValidation, "KAFKA_TOPIC_PARTITIONS must be between 1 and 2147483647")
		}
		if c.Kafka.ReplicationFactor <= 0 || c.Kafka.ReplicationFactor > math.MaxInt16 {
			return dErrors.New(dErrors.CodeValidation, "KAFKA_TOPIC_REPLICATION must be between 1 and 32767")
		}
	}
	return nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Unparseable numbers fall back to the default; Validate catches values that
// parse but are out of range.
func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	return textutil.DedupeAndTrim(strings.Split(raw, ","))
}
