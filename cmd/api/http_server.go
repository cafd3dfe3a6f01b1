package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/giovaniif/e-commerce/catalog/config"
	"github.com/giovaniif/e-commerce/catalog/infra/gateways"
	"github.com/giovaniif/e-commerce/catalog/infra/loki"
	"github.com/giovaniif/e-commerce/catalog/infra/metrics"
	"github.com/giovaniif/e-commerce/catalog/infra/repositories"
	"github.com/giovaniif/e-commerce/catalog/infra/tracing"
	protocols "github.com/giovaniif/e-commerce/catalog/protocols"
)

const memoryEventLimit = 1000

func StartServer() {
	cfg := config.Load()
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	lokiWriter := loki.NewWriter(cfg.LokiURL, cfg.ServiceName)
	logger := newLogger(lokiWriter)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("tracing disabled", "endpoint", cfg.OTLPEndpoint, "error", err)
	}

	itemRepository := repositories.NewItemRepositoryMemory()
	if err := metrics.RegisterItemsStored(prometheus.DefaultRegisterer, itemRepository.Count); err != nil {
		logger.Warn("failed to register store size metric", "error", err)
	}

	healthChecks := make(map[string]HealthCheck)
	var closers []io.Closer

	var idempotencyGateway protocols.IdempotencyGateway
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory idempotency", "addr", cfg.RedisAddr, "error", err)
			_ = rdb.Close()
			idempotencyGateway = gateways.NewIdempotencyGatewayMemory()
		} else {
			idempotencyGateway = gateways.NewIdempotencyGatewayRedis(rdb, cfg.IdempotencyTTL)
			healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
			closers = append(closers, rdb)
			logger.Info("item idempotency: redis", "addr", cfg.RedisAddr, "ttl", cfg.IdempotencyTTL.String())
		}
	} else {
		idempotencyGateway = gateways.NewIdempotencyGatewayMemory()
		logger.Info("item idempotency: in-memory (set REDIS_ADDR for redis)")
	}

	eventPublisher, eventClosers := newEventPublisher(ctx, cfg, logger, healthChecks)
	closers = append(closers, eventClosers...)

	router := NewRouter(Dependencies{
		ItemRepository:     itemRepository,
		IdempotencyGateway: idempotencyGateway,
		EventPublisher:     eventPublisher,
		HealthChecks:       healthChecks,
		Logger:             logger,
	})

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		logger.Error("failed to bind", "addr", cfg.Addr(), "error", err)
		if lokiWriter != nil {
			_ = lokiWriter.Close()
		}
		os.Exit(1)
	}

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()
	logger.Info("catalog is running", "addr", listener.Addr().String())

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}
	if shutdownTracing != nil {
		_ = shutdownTracing(shutdownCtx)
	}
	if lokiWriter != nil {
		_ = lokiWriter.Close()
	}
}

// newEventPublisher picks the sinks for item events: Kafka and/or the Postgres
// audit table, or an in-memory buffer when neither is configured.
func newEventPublisher(ctx context.Context, cfg config.Config, logger *slog.Logger, healthChecks map[string]HealthCheck) (protocols.EventPublisher, []io.Closer) {
	var publishers []protocols.EventPublisher
	var closers []io.Closer

	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := gateways.NewEventPublisherKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		publishers = append(publishers, kafkaPublisher)
		closers = append(closers, kafkaPublisher)
		logger.Info("item events: kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	if cfg.DatabaseURL != "" {
		postgresPublisher, err := gateways.OpenEventPublisherPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("postgres unavailable, item events are not audited", "error", err)
		} else {
			publishers = append(publishers, postgresPublisher)
			closers = append(closers, postgresPublisher)
			healthChecks["postgres"] = postgresPublisher.Ping
			logger.Info("item events: postgres audit table")
		}
	}

	switch len(publishers) {
	case 0:
		logger.Info("item events: in-memory (set KAFKA_BROKERS or DATABASE_URL to export)")
		return gateways.NewEventPublisherMemory(memoryEventLimit), closers
	case 1:
		return publishers[0], closers
	default:
		return gateways.NewEventPublisherMulti(publishers...), closers
	}
}

func newLogger(lokiWriter *loki.Writer) *slog.Logger {
	var out io.Writer = os.Stderr
	if lokiWriter != nil {
		out = io.MultiWriter(os.Stderr, lokiWriter)
	}
	return slog.New(slog.NewJSONHandler(out, nil))
}
