package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort                = "3000"
	defaultServiceName         = "catalog"
	defaultKafkaTopic          = "catalog.items"
	defaultIdempotencyTTLHours = 24
	defaultShutdownTimeoutSec  = 10
)

type Config struct {
	Port            string
	GinMode         string
	ServiceName     string
	RedisAddr       string
	IdempotencyTTL  time.Duration
	KafkaBrokers    []string
	KafkaTopic      string
	DatabaseURL     string
	LokiURL         string
	OTLPEndpoint    string
	ShutdownTimeout time.Duration
}

func Load() Config {
	return LoadFrom(os.Getenv)
}

// LoadFrom builds a Config from getenv, falling back to defaults for unset or invalid values.
func LoadFrom(getenv func(string) string) Config {
	cfg := Config{
		Port:            defaultPort,
		GinMode:         getenv("GIN_MODE"),
		ServiceName:     defaultServiceName,
		RedisAddr:       getenv("REDIS_ADDR"),
		IdempotencyTTL:  defaultIdempotencyTTLHours * time.Hour,
		KafkaBrokers:    splitList(getenv("KAFKA_BROKERS")),
		KafkaTopic:      defaultKafkaTopic,
		DatabaseURL:     getenv("DATABASE_URL"),
		LokiURL:         getenv("LOKI_URL"),
		OTLPEndpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ShutdownTimeout: defaultShutdownTimeoutSec * time.Second,
	}

	if port := getenv("PORT"); port != "" {
		cfg.Port = port
	} else if port := getenv("port"); port != "" {
		cfg.Port = port
	}
	if name := getenv("SERVICE_NAME"); name != "" {
		cfg.ServiceName = name
	}
	if topic := getenv("KAFKA_TOPIC"); topic != "" {
		cfg.KafkaTopic = topic
	}
	if n := positiveInt(getenv("IDEMPOTENCY_TTL_HOURS")); n > 0 {
		cfg.IdempotencyTTL = time.Duration(n) * time.Hour
	}
	if n := positiveInt(getenv("SHUTDOWN_TIMEOUT_SECONDS")); n > 0 {
		cfg.ShutdownTimeout = time.Duration(n) * time.Second
	}
	return cfg
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func positiveInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
