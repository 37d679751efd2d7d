package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishi-ledger/krishi-ledger/internal/sales"
	"github.com/krishi-ledger/krishi-ledger/internal/sales/memory"
)

func memoryOpener(repo *memory.Repository) storeOpener {
	return func(ctx context.Context) (sales.Repository, *time.Location, func(), error) {
		return repo, time.UTC, func() {}, nil
	}
}

func noSweep(ctx context.Context) error {
	return errors.New("sweep not expected")
}

func runCmd(t *testing.T, open storeOpener, args ...string) (string, error) {
	t.Helper()
	return runCmdWithSweep(t, open, noSweep, args...)
}

func runCmdWithSweep(t *testing.T, open storeOpener, enqueue sweepEnqueuer, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	cmd := newRootCmd(open, enqueue, out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSampleSales(t *testing.T) {
	batch, err := sampleSales(time.UTC)
	require.NoError(t, err)
	require.Len(t, batch, 12)

	first := batch[0]
	assert.Equal(t, "ABC Agency", first.VendorName)
	assert.Equal(t, "2025-01-10", first.OrderDispatchDate.Format(sales.DateLayout))
	require.NotNil(t, first.DueDate)
	assert.Equal(t, "2025-02-24", first.DueDate.Format(sales.DateLayout))
	assert.Equal(t, sales.StatusOverdue, batch[9].PaymentStatus)

	metrics := sales.ComputeMetrics(batch)
	assert.Equal(t, "100950", metrics.TotalRevenue.String())
	assert.Equal(t, 207, metrics.TotalProductsSold)
	assert.Equal(t, 4, metrics.UniqueVendors)
	assert.Equal(t, 3, metrics.UniqueAreasCovered)
}

func TestSeedReplacesExistingRecords(t *testing.T) {
	repo := memory.NewRepository()
	_, err := repo.Insert(context.Background(), sales.NewSale(time.Now(), "Old", "Area", "Truck", "Old", 1, decimal.NewFromInt(1)))
	require.NoError(t, err)

	out, err := runCmd(t, memoryOpener(repo))
	require.NoError(t, err)

	all, err := repo.List(context.Background(), sales.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 12)
	assert.Contains(t, out, "Cleared existing data")
	assert.Contains(t, out, "Successfully inserted 12 sample sales records")
	assert.Contains(t, out, "Total Products Sold: 207")
	assert.Contains(t, out, "Unique Vendors: 4")
	assert.Contains(t, out, "Areas Covered: 3")
	assert.Contains(t, out, "123 FasalKavach: 55 units")
	assert.Contains(t, out, "143 Poshan: 45 units")
}

func TestSeedKeepAppends(t *testing.T) {
	repo := memory.NewRepository()
	_, err := runCmd(t, memoryOpener(repo))
	require.NoError(t, err)

	out, err := runCmd(t, memoryOpener(repo), "--keep")
	require.NoError(t, err)

	all, err := repo.List(context.Background(), sales.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 24)
	assert.Contains(t, out, "Appended 12 sample sales records")
}

func TestSeedDryRunDoesNotOpenStore(t *testing.T) {
	opened := false
	open := func(ctx context.Context) (sales.Repository, *time.Location, func(), error) {
		opened = true
		return nil, nil, nil, errors.New("should not open")
	}

	out, err := runCmd(t, open, "--dry-run")
	require.NoError(t, err)
	assert.False(t, opened)
	assert.Contains(t, out, "Dry run: 12 sample sales records would be inserted")
	assert.Contains(t, out, "=== Product Breakdown ===")
}

func TestSeedReportsStoreErrors(t *testing.T) {
	open := func(ctx context.Context) (sales.Repository, *time.Location, func(), error) {
		return nil, nil, nil, errors.New("connection refused")
	}

	_, err := runCmd(t, open)
	assert.ErrorContains(t, err, "connection refused")
}

func TestSeedSweepQueuesJob(t *testing.T) {
	queued := 0
	enqueue := func(ctx context.Context) error {
		queued++
		return nil
	}

	out, err := runCmdWithSweep(t, memoryOpener(memory.NewRepository()), enqueue, "--sweep")
	require.NoError(t, err)
	assert.Equal(t, 1, queued)
	assert.Contains(t, out, "Queued an overdue sweep")

	_, err = runCmdWithSweep(t, nil, enqueue, "--sweep", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, 1, queued)
}

func TestSeedSweepReportsQueueErrors(t *testing.T) {
	enqueue := func(ctx context.Context) error {
		return errors.New("redis down")
	}

	_, err := runCmdWithSweep(t, memoryOpener(memory.NewRepository()), enqueue, "--sweep")
	assert.ErrorContains(t, err, "redis down")
}
