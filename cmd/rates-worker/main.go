package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/merchantry-backend/internal/cron"
	"github.com/angelmondragon/merchantry-backend/internal/currencies"
	"github.com/angelmondragon/merchantry-backend/internal/rates"
	"github.com/angelmondragon/merchantry-backend/pkg/config"
	"github.com/angelmondragon/merchantry-backend/pkg/db"
	"github.com/angelmondragon/merchantry-backend/pkg/logger"
	"github.com/angelmondragon/merchantry-backend/pkg/metrics"
	"github.com/angelmondragon/merchantry-backend/pkg/redis"
)

const lockKeyFormat = "mch:rates-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "rates-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "rates-worker"

	logg = logger.New(logger.Options{
		ServiceName: "rates-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	provider, err := rates.NewHTTPProvider(cfg.Rates.ProviderURL, cfg.Rates.ProviderAPIKey, cfg.Rates.RequestTimeout)
	if err != nil {
		logg.Error(context.Background(), "failed to create rate provider", err)
		os.Exit(1)
	}

	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)
	refresher, err := rates.NewRefresher(
		provider,
		currencies.NewRepository(dbClient.DB()),
		rates.RetryPolicy{
			MaxAttempts:    cfg.Rates.MaxAttempts,
			InitialBackoff: cfg.Rates.InitialBackoff,
			MaximumBackoff: cfg.Rates.MaximumBackoff,
		},
		logg,
		jobMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create rate refresher", err)
		os.Exit(1)
	}

	refreshJob, err := cron.NewRatesRefreshJob(refresher)
	if err != nil {
		logg.Error(context.Background(), "failed to create rates refresh job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(refreshJob),
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Rates.RefreshInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting rates worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "rates worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "rates worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
