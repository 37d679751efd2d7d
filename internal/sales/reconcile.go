package sales

import (
	"context"
	"log/slog"
	"time"
)

// Recorder receives reconciliation outcomes, typically for metrics.
type Recorder interface {
	ObserveReconciliation(transitioned, failed int)
}

// ReconcileResult summarises one reconciliation pass.
type ReconcileResult struct {
	Checked      int
	Transitioned int
	Failed       int
}

// Reconciler moves Due sales past their due date to Overdue.
type Reconciler struct {
	writer   StatusWriter
	logger   *slog.Logger
	recorder Recorder
}

// NewReconciler builds a Reconciler persisting through writer.
func NewReconciler(writer StatusWriter, logger *slog.Logger, recorder Recorder) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{writer: writer, logger: logger, recorder: recorder}
}

// NeedsOverdue reports whether s must transition given today at midnight in loc.
func NeedsOverdue(s Sale, today time.Time, loc *time.Location) bool {
	if s.PaymentStatus != StatusDue || !s.HasDueDate() {
		return false
	}
	return CivilDate(*s.DueDate, loc).Before(today)
}

// Reconcile flips qualifying sales to Overdue in place and persists each
// change independently. A failed write is logged and the in-memory status
// is still Overdue, so the next pass retries the write.
func (r *Reconciler) Reconcile(ctx context.Context, sales []Sale, today time.Time, loc *time.Location) ReconcileResult {
	var result ReconcileResult
	for i := range sales {
		if !NeedsOverdue(sales[i], today, loc) {
			continue
		}
		result.Checked++
		if err := r.writer.SetPaymentStatus(ctx, sales[i].ID, StatusOverdue); err != nil {
			result.Failed++
			r.logger.Warn("reconcile overdue status",
				slog.String("sale_id", sales[i].ID),
				slog.Any("error", err),
			)
		} else {
			result.Transitioned++
		}
		sales[i].PaymentStatus = StatusOverdue
	}
	if r.recorder != nil && result.Checked > 0 {
		r.recorder.ObserveReconciliation(result.Transitioned, result.Failed)
	}
	return result
}

// OverdueDays returns the whole days s is past due, or 0 when not Overdue.
func OverdueDays(s Sale, today time.Time, loc *time.Location) int {
	if s.PaymentStatus != StatusOverdue || !s.HasDueDate() {
		return 0
	}
	days := DaysBetween(CivilDate(*s.DueDate, loc), today)
	if days < 0 {
		return 0
	}
	return days
}

// AnnotateOverdue sets OverdueDays on every sale.
func AnnotateOverdue(sales []Sale, today time.Time, loc *time.Location) {
	for i := range sales {
		sales[i].OverdueDays = OverdueDays(sales[i], today, loc)
	}
}
