package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSalesOverdueSweep flips every Due sale past its due date to Overdue.
	TaskSalesOverdueSweep = "sales:overdue_sweep"
)

// Trigger values recorded on sweep payloads.
const (
	TriggerCron   = "cron"
	TriggerManual = "manual"
)

// OverdueSweepPayload describes why a sweep was queued.
type OverdueSweepPayload struct {
	Trigger string `json:"trigger"`
}

// NewOverdueSweepTask constructs an Asynq task.
func NewOverdueSweepTask(trigger string) (*asynq.Task, error) {
	if trigger == "" {
		trigger = TriggerManual
	}
	data, err := json.Marshal(OverdueSweepPayload{Trigger: trigger})
	if err != nil {
		return nil, fmt.Errorf("marshal overdue sweep payload: %w", err)
	}
	return asynq.NewTask(TaskSalesOverdueSweep, data, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}

// Enqueuer is the subset of asynq.Client used to queue tasks.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueueOverdueSweep queues a one-off sweep.
func EnqueueOverdueSweep(ctx context.Context, client Enqueuer, trigger string) (*asynq.TaskInfo, error) {
	task, err := NewOverdueSweepTask(trigger)
	if err != nil {
		return nil, err
	}
	return client.EnqueueContext(ctx, task)
}
