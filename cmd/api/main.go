package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/config"
	dbpkg "github.com/BruksfildServices01/booking-engine/internal/db"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/infra/lock"
	"github.com/BruksfildServices01/booking-engine/internal/infra/repository"
	"github.com/BruksfildServices01/booking-engine/internal/logging"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/notify"
	"github.com/BruksfildServices01/booking-engine/internal/routes"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	metrics.Register()

	deps, cleanup, err := buildDeps(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr()).Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			cleanup()
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP shutdown failed")
	}

	cleanup()
	return nil
}

// buildDeps wires storage, locking, notifications and auditing. The returned
// cleanup drains the background queues and closes connections.
func buildDeps(cfg *config.Config, logger *zerolog.Logger) (routes.Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := routes.Deps{Config: cfg, Log: logger}

	// ------------------------------
	// storage
	// ------------------------------
	if cfg.Database.Driver == "memory" {
		mem := repository.NewMemory()
		deps.Appointments = mem
		deps.Blocks = mem
		deps.Catalog = mem
		deps.AuditStore = mem
		logger.Warn().Msg("Using in-memory storage; data is lost on restart")
	} else {
		db, err := dbpkg.Open(cfg.Database, logger)
		if err != nil {
			return deps, cleanup, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return deps, cleanup, err
		}
		closers = append(closers, func() { _ = sqlDB.Close() })

		deps.Appointments = repository.NewAppointmentGormRepository(db)
		deps.Blocks = repository.NewScheduleGormRepository(db)
		deps.Catalog = repository.NewCatalogGormRepository(db)
		deps.AuditStore = repository.NewAuditGormRepository(db)
		deps.Ready = sqlDB.Ping
	}

	// ------------------------------
	// booking lock
	// ------------------------------
	var locker domain.Locker = lock.NewKeyedMutex(cfg.Booking.LockWait)
	if cfg.Redis.URL != "" {
		client, err := lock.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			cleanup()
			return deps, func() {}, err
		}
		if err := pingRedis(client); err != nil {
			cleanup()
			return deps, func() {}, fmt.Errorf("redis: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		locker = lock.NewRedisLocker(client, cfg.Booking.LockTTL, cfg.Booking.LockWait, logger)
		logger.Info().Msg("Booking lock: redis")
	} else {
		logger.Info().Msg("Booking lock: in-process; run a single replica")
	}
	deps.Locker = locker

	// ------------------------------
	// notifications
	// ------------------------------
	sinks := []notify.Sink{
		notify.NewLogSink(logger),
		notify.NewWebhookSink(cfg.Notify.WebhookURL, cfg.Notify.WebhookToken, 5*time.Second),
	}
	if cfg.Notify.KafkaBrokers != "" {
		kafkaSink := notify.NewKafkaSink(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic)
		sinks = append(sinks, kafkaSink)
		closers = append(closers, func() { _ = kafkaSink.Close() })
	}

	publisher := notify.NewDispatcher(sinks, notify.Options{
		QueueSize: cfg.Notify.QueueSize,
		Workers:   cfg.Notify.Workers,
		Retry: notify.RetryPolicy{
			MaxRetries:    cfg.Notify.MaxRetries,
			InitialDelay:  cfg.Notify.RetryDelay,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2,
		},
	}, logger)
	closers = append(closers, func() { drain(logger, "notify", publisher.Close) })
	deps.Publisher = publisher

	// ------------------------------
	// audit
	// ------------------------------
	auditDispatcher := audit.NewDispatcher(audit.New(deps.AuditStore), logger, cfg.Notify.QueueSize)
	closers = append(closers, func() { drain(logger, "audit", auditDispatcher.Close) })
	deps.Audit = auditDispatcher

	return deps, cleanup, nil
}

func pingRedis(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return client.Ping(ctx).Err()
}

func drain(logger *zerolog.Logger, name string, closeFn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := closeFn(ctx); err != nil {
		logger.Warn().Err(err).Str("queue", name).Msg("Queue not fully drained")
	}
}
