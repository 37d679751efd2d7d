package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/krishi-ledger/krishi-ledger/internal/app"
	"github.com/krishi-ledger/krishi-ledger/internal/chart"
	"github.com/krishi-ledger/krishi-ledger/internal/observability"
	"github.com/krishi-ledger/krishi-ledger/internal/platform/cache"
	"github.com/krishi-ledger/krishi-ledger/internal/sales"
	"github.com/krishi-ledger/krishi-ledger/internal/shared"
	"github.com/krishi-ledger/krishi-ledger/internal/view"
	"github.com/krishi-ledger/krishi-ledger/jobs"
)

const sessionCookie = "krishi_session"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	if err := cfg.RequireSecrets(); err != nil {
		logger.Error("missing secrets", slog.Any("error", err))
		os.Exit(1)
	}
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

	redisOpts := cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	redisClient, err := cache.New(ctx, redisOpts)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, sessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	salesService := sales.NewService(repo, sales.ServiceConfig{
		Location: loc,
		Logger:   logger,
		Recorder: metrics,
	})
	salesHandler := sales.NewHandler(logger, salesService, templates, csrfManager, chart.Renderer{})

	inspector := asynq.NewInspector(redisOpts.AsynqOpt())
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		SalesHandler:   salesHandler,
		JobHandler:     jobHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("store", cfg.StoreDriver),
			slog.String("timezone", loc.String()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
