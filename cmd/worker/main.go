package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/krishi-ledger/krishi-ledger/internal/app"
	jobmetrics "github.com/krishi-ledger/krishi-ledger/internal/jobs"
	"github.com/krishi-ledger/krishi-ledger/internal/platform/cache"
	"github.com/krishi-ledger/krishi-ledger/internal/sales"
	"github.com/krishi-ledger/krishi-ledger/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	loc, err := cfg.Location()
	if err != nil {
		logger.Error("resolve timezone", slog.Any("error", err))
		os.Exit(1)
	}

	repo, closeStore, err := app.OpenSalesRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("open sales store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	salesService := sales.NewService(repo, sales.ServiceConfig{Location: loc, Logger: logger})
	sweepJob := jobs.NewOverdueSweepJob(salesService, logger, jobmetrics.NewMetrics(nil))

	sweepTask, err := jobs.NewOverdueSweepTask(jobs.TriggerCron)
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}

	redisOpts := cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts.AsynqOpt(),
		Logger:    logger,
		Location:  loc,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSalesOverdueSweep, Handler: sweepJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.SweepCron, Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("sweep_cron", cfg.SweepCron), slog.String("timezone", loc.String()))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
