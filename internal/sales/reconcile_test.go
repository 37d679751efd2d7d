package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNeedsOverdue(t *testing.T) {
	today := day(2024, 6, 15)
	cases := []struct {
		name string
		sale Sale
		want bool
	}{
		{"due yesterday", Sale{PaymentStatus: StatusDue, DueDate: dayPtr(2024, 6, 14)}, true},
		{"due today", Sale{PaymentStatus: StatusDue, DueDate: dayPtr(2024, 6, 15)}, false},
		{"due tomorrow", Sale{PaymentStatus: StatusDue, DueDate: dayPtr(2024, 6, 16)}, false},
		{"no due date", Sale{PaymentStatus: StatusDue}, false},
		{"paid and late", Sale{PaymentStatus: StatusPaid, DueDate: dayPtr(2024, 1, 1)}, false},
		{"already overdue", Sale{PaymentStatus: StatusOverdue, DueDate: dayPtr(2024, 1, 1)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NeedsOverdue(tc.sale, today, time.UTC))
		})
	}
}

func TestNeedsOverdueIgnoresTimeOfDay(t *testing.T) {
	today := day(2024, 6, 15)
	lateToday := time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC)
	assert.False(t, NeedsOverdue(Sale{PaymentStatus: StatusDue, DueDate: &lateToday}, today, time.UTC))

	earlyYesterday := time.Date(2024, 6, 14, 0, 1, 0, 0, time.UTC)
	assert.True(t, NeedsOverdue(Sale{PaymentStatus: StatusDue, DueDate: &earlyYesterday}, today, time.UTC))
}

func TestReconcilerRecordsOutcome(t *testing.T) {
	repo := newMockRepository(
		testSale("a", "Ramesh", "Mungeli", "Urea", 10, 7000, StatusDue, day(2024, 6, 1), dayPtr(2024, 6, 10)),
	)
	rec := &recorderStub{}
	r := NewReconciler(repo, nil, rec)

	batch := []Sale{repo.stored("a")}
	result := r.Reconcile(context.Background(), batch, day(2024, 6, 15), time.UTC)
	assert.Equal(t, ReconcileResult{Checked: 1, Transitioned: 1}, result)
	assert.Equal(t, StatusOverdue, batch[0].PaymentStatus)
	assert.Equal(t, 1, rec.calls)

	result = r.Reconcile(context.Background(), batch, day(2024, 6, 15), time.UTC)
	assert.Equal(t, ReconcileResult{}, result)
	assert.Equal(t, 1, rec.calls, "a pass with nothing to do is not recorded")
}

func TestOverdueDays(t *testing.T) {
	today := day(2024, 6, 15)
	assert.Equal(t, 5, OverdueDays(Sale{PaymentStatus: StatusOverdue, DueDate: dayPtr(2024, 6, 10)}, today, time.UTC))
	assert.Equal(t, 0, OverdueDays(Sale{PaymentStatus: StatusOverdue}, today, time.UTC))
	assert.Equal(t, 0, OverdueDays(Sale{PaymentStatus: StatusDue, DueDate: dayPtr(2024, 6, 10)}, today, time.UTC))
	assert.Equal(t, 0, OverdueDays(Sale{PaymentStatus: StatusPaid, DueDate: dayPtr(2024, 6, 10)}, today, time.UTC))
	assert.Equal(t, 0, OverdueDays(Sale{PaymentStatus: StatusOverdue, DueDate: dayPtr(2024, 6, 20)}, today, time.UTC), "manual overdue before the due date")
}

func TestAnnotateOverdue(t *testing.T) {
	sales := []Sale{
		{PaymentStatus: StatusOverdue, DueDate: dayPtr(2024, 6, 1), OverdueDays: 99},
		{PaymentStatus: StatusPaid, OverdueDays: 7},
	}
	AnnotateOverdue(sales, day(2024, 6, 15), time.UTC)
	assert.Equal(t, 14, sales[0].OverdueDays)
	assert.Equal(t, 0, sales[1].OverdueDays)
}

func TestDaysBetweenCrossesDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	from := time.Date(2024, 3, 9, 0, 0, 0, 0, ny)
	to := time.Date(2024, 3, 11, 0, 0, 0, 0, ny)
	assert.Equal(t, 2, DaysBetween(from, to), "a 47 hour span still counts as two days")

	from = time.Date(2024, 11, 2, 0, 0, 0, 0, ny)
	to = time.Date(2024, 11, 4, 0, 0, 0, 0, ny)
	assert.Equal(t, 2, DaysBetween(from, to), "a 49 hour span still counts as two days")
}

func TestOverdueDaysAcrossFallBack(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	today := Today(time.Date(2024, 11, 4, 12, 0, 0, 0, ny), ny)
	sale := Sale{PaymentStatus: StatusOverdue, DueDate: dayPtr(2024, 11, 2)}
	assert.Equal(t, 2, OverdueDays(sale, today, ny))

	sale.DueDate = dayPtr(2024, 10, 30)
	assert.Equal(t, 5, OverdueDays(sale, today, ny))
}
