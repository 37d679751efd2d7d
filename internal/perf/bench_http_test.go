package perf

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/krishi-ledger/krishi-ledger/internal/chart"
	"github.com/krishi-ledger/krishi-ledger/internal/sales"
	"github.com/krishi-ledger/krishi-ledger/internal/sales/memory"
	"github.com/krishi-ledger/krishi-ledger/internal/view"
)

var (
	areas      = []string{"Takhatpur", "Bhatapara", "Mungeli", "Bilaspur", "Lormi"}
	products   = []string{"143 Poshan", "138 KeetHar", "123 FasalKavach", "121 BhuRakshak"}
	transports = []string{"Rishabh Transport", "MP Transways", "Mahaveer Transport"}
)

// seedStore fills a memory store with n sales spread over the first half of 2025.
// Every third sale is Due and already past its due date.
func seedStore(tb testing.TB, n int) *memory.Repository {
	tb.Helper()
	repo := memory.NewRepository()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	batch := make([]sales.Sale, 0, n)
	for i := 0; i < n; i++ {
		dispatch := start.AddDate(0, 0, i%180)
		sale := sales.NewSale(dispatch,
			fmt.Sprintf("Vendor %03d", i%40),
			areas[i%len(areas)],
			transports[i%len(transports)],
			products[i%len(products)],
			1+i%25,
			decimal.NewFromInt(int64(1000+i*7)),
		)
		due := dispatch.AddDate(0, 0, 30)
		sale.DueDate = &due
		switch i % 3 {
		case 0:
			sale.PaymentStatus = sales.StatusDue
		case 1:
			sale.PaymentStatus = sales.StatusPaid
		default:
			sale.PaymentStatus = sales.StatusOverdue
		}
		batch = append(batch, sale)
	}
	if _, err := repo.ReplaceAll(context.Background(), batch); err != nil {
		tb.Fatalf("seed store: %v", err)
	}
	return repo
}

func newDashboardRouter(tb testing.TB, repo sales.Repository) http.Handler {
	tb.Helper()
	engine, err := view.NewEngine()
	if err != nil {
		tb.Fatalf("parse templates: %v", err)
	}
	service := sales.NewService(repo, sales.ServiceConfig{
		Now: func() time.Time { return time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC) },
	})
	r := chi.NewRouter()
	sales.NewHandler(nil, service, engine, nil, chart.Renderer{}).MountRoutes(r)
	return r
}

func TestDashboardLatencyTargets(t *testing.T) {
	router := newDashboardRouter(t, seedStore(t, 1000))

	scenarios := []struct {
		name      string
		path      string
		threshold time.Duration
	}{
		{name: "unfiltered", path: "/", threshold: 500 * time.Millisecond},
		{name: "filtered", path: "/?area=Mungeli&paymentStatus=Overdue&startDate=2025-02-01&endDate=2025-04-30", threshold: 500 * time.Millisecond},
		{name: "json", path: "/api/dashboard?product=143+Poshan", threshold: 300 * time.Millisecond},
		{name: "csv", path: "/export.csv?transport=MP+Transways", threshold: 300 * time.Millisecond},
	}

	for _, scenario := range scenarios {
		samples := make([]time.Duration, 0, 10)
		for i := 0; i < 10; i++ {
			rec := httptest.NewRecorder()
			start := time.Now()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, scenario.path, nil))
			samples = append(samples, time.Since(start))
			if rec.Code != http.StatusOK {
				t.Fatalf("%s: unexpected status %d", scenario.name, rec.Code)
			}
		}
		p95 := percentile95(samples)
		if p95 > scenario.threshold {
			t.Fatalf("%s latency regression: p95=%s threshold=%s", scenario.name, p95, scenario.threshold)
		}
	}
}

func BenchmarkDashboardPage(b *testing.B) {
	router := newDashboardRouter(b, seedStore(b, 1000))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	}
}

func BenchmarkComputeMetrics(b *testing.B) {
	all, err := seedStore(b, 5000).List(context.Background(), sales.Query{})
	if err != nil {
		b.Fatalf("list: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = sales.ComputeMetrics(all)
		_ = sales.DeriveFilterOptions(all)
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
