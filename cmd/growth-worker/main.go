package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vendygo/vendygo-backend/internal/coop"
	"github.com/vendygo/vendygo-backend/internal/growth"
	"github.com/vendygo/vendygo-backend/internal/users"
	"github.com/vendygo/vendygo-backend/pkg/config"
	"github.com/vendygo/vendygo-backend/pkg/db"
	"github.com/vendygo/vendygo-backend/pkg/logger"
	"github.com/vendygo/vendygo-backend/pkg/metrics"
	"github.com/vendygo/vendygo-backend/pkg/migrate"
	"github.com/vendygo/vendygo-backend/pkg/redis"
)

const lockKeyFormat = "vg:growth-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "growth-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "growth-worker"

	logg = logger.New(logger.Options{
		ServiceName: "growth-worker",
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	coopService, err := coop.NewService(coop.ServiceParams{
		Repo:     coop.NewRepository(dbClient.DB()),
		UserRepo: users.NewRepository(dbClient.DB()),
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create coop service", err)
		os.Exit(1)
	}

	feed, err := growth.NewRandomFeed(coopService, cfg.Growth)
	if err != nil {
		logg.Error(context.Background(), "failed to create commitment feed", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewWorkerMetrics(prometheus.DefaultRegisterer)
	lock, err := growth.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.Growth.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := growth.NewService(growth.ServiceParams{
		Logger:   logg,
		Feed:     feed,
		Ledger:   coopService,
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Growth.TickInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create growth service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting growth worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "growth worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "growth worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
