package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/nekogravitycat/academy-console/internal/app"
	"github.com/nekogravitycat/academy-console/internal/appointment"
	"github.com/nekogravitycat/academy-console/internal/config"
	"github.com/nekogravitycat/academy-console/internal/db"
	"github.com/nekogravitycat/academy-console/internal/lock"
	"github.com/nekogravitycat/academy-console/internal/logger"
	"github.com/nekogravitycat/academy-console/internal/telemetry"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:      cfg.OTelEnabled,
		ServiceName:  cfg.ServiceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		SampleRatio:  cfg.OTelSamplingRatio,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	containerCfg := app.Config{
		IsProduction:      cfg.IsProduction,
		ProdOrigins:       cfg.ProdOrigins,
		Logger:            log,
		BackendConfigured: cfg.BackendConfigured,
		StoreTimeout:      cfg.StoreTimeout,
		Location:          cfg.Location,
		JWTSecret:         cfg.JWTSecret,
		JWTTTL:            cfg.JWTAccessTokenTTL,
		StaffEmail:        cfg.StaffEmail,
		StaffPasswordHash: cfg.StaffPasswordHash,
		BcryptCost:        cfg.BcryptCost,
	}

	// Storage mode is decided here, once, from configuration.
	if cfg.BackendConfigured {
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, cfg.DBDSN); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			log.Info("migrations applied")
		}

		pool, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("connect to db: %w", err)
		}
		defer pool.Close()
		containerCfg.DBPool = pool
		log.Info("storage mode", zap.String("mode", cfg.Mode()))
	} else {
		log.Warn("storage mode", zap.String("mode", cfg.Mode()),
			zap.String("reason", "DB_DSN not set, serving the built-in fixture"))
		if cfg.DemoToday != "" {
			containerCfg.Now = pinnedClock(cfg.DemoToday, cfg.Location)
			log.Info("demo calendar pinned", zap.String("today", cfg.DemoToday))
		}
	}

	// Slot lock
	switch cfg.LockBackend {
	case config.LockBackendRedis:
		rdb, err := lock.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer func(rdb *redis.Client) { _ = rdb.Close() }(rdb)
		containerCfg.Locker = lock.NewRedisLocker(rdb, cfg.LockTTL)
	default:
		containerCfg.Locker = lock.NewMemoryLocker()
	}
	log.Info("slot lock", zap.String("backend", cfg.LockBackend))

	// Booking events
	if len(cfg.KafkaBrokers) > 0 {
		publisher := appointment.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Warn("kafka writer close failed", zap.Error(err))
			}
		}()
		containerCfg.Publisher = publisher
		log.Info("booking events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	container := app.NewContainer(containerCfg)

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(container.Router, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.HTTPAddr), zap.String("mode", cfg.Mode()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited gracefully")
	return nil
}

// pinnedClock keeps the wall-clock time of day but reports date as today.
func pinnedClock(date string, loc *time.Location) func() time.Time {
	day, _ := time.ParseInLocation("2006-01-02", date, loc)
	return func() time.Time {
		now := time.Now().In(loc)
		return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, loc)
	}
}
