package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/krishi-ledger/krishi-ledger/internal/jobs"
	"github.com/krishi-ledger/krishi-ledger/internal/sales"
)

// Sweeper reconciles every Due sale in the store.
type Sweeper interface {
	SweepOverdue(ctx context.Context) (sales.ReconcileResult, error)
}

// OverdueSweepJob runs the overdue reconciliation outside of a page load.
type OverdueSweepJob struct {
	Sweeper Sweeper
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewOverdueSweepJob initialises the sweep handler.
func NewOverdueSweepJob(sweeper Sweeper, logger *slog.Logger, metrics *jobmetrics.Metrics) *OverdueSweepJob {
	return &OverdueSweepJob{Sweeper: sweeper, Logger: logger, Metrics: metrics}
}

// Handle executes TaskSalesOverdueSweep.
func (j *OverdueSweepJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Sweeper == nil {
		return errors.New("overdue sweep: handler not configured")
	}
	tracker := j.Metrics.Track(TaskSalesOverdueSweep)
	defer func() {
		err = tracker.End(err)
	}()

	var payload OverdueSweepPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			j.logger().Warn("overdue sweep payload rejected", slog.Any("error", err))
			return asynq.SkipRetry
		}
	}

	logger := j.logger().With(slog.String("trigger", payload.Trigger))
	start := time.Now()
	result, err := j.Sweeper.SweepOverdue(ctx)
	if err != nil {
		logger.Error("overdue sweep failed", slog.Any("error", err))
		return err
	}
	j.Metrics.AddItems(TaskSalesOverdueSweep, "transitioned", result.Transitioned)
	j.Metrics.AddItems(TaskSalesOverdueSweep, "failed", result.Failed)

	logger.Info("completed overdue sweep",
		slog.Int("checked", result.Checked),
		slog.Int("transitioned", result.Transitioned),
		slog.Int("failed", result.Failed),
		slog.Duration("duration", time.Since(start)),
	)
	if result.Failed > 0 {
		return fmt.Errorf("overdue sweep: %d of %d status writes failed", result.Failed, result.Checked)
	}
	return nil
}

func (j *OverdueSweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
