package sales

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type mockRepository struct {
	mu     sync.Mutex
	sales  map[string]Sale
	nextID int

	statusWrites int
	listCalls    int

	// Error injection
	listErr      error
	listAllErr   error
	setStatusErr error
	insertErr    error
	deleteErr    error
}

func newMockRepository(seed ...Sale) *mockRepository {
	m := &mockRepository{sales: make(map[string]Sale), nextID: 1}
	for _, s := range seed {
		if s.ID == "" {
			s.ID = m.newID()
		}
		m.sales[s.ID] = s
	}
	return m
}

func (m *mockRepository) newID() string {
	id := fmt.Sprintf("sale-%d", m.nextID)
	m.nextID++
	return id
}

func (m *mockRepository) Insert(ctx context.Context, sale Sale) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return "", m.insertErr
	}
	sale.ID = m.newID()
	sale.OverdueDays = 0
	m.sales[sale.ID] = sale
	return sale.ID, nil
}

func (m *mockRepository) Get(ctx context.Context, id string) (*Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *mockRepository) List(ctx context.Context, q Query) ([]Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if q.IsZero() && m.listAllErr != nil {
		return nil, m.listAllErr
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]Sale, 0, len(m.sales))
	for _, s := range m.sales {
		if q.Matches(s) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrderDispatchDate.Equal(out[j].OrderDispatchDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].OrderDispatchDate.After(out[j].OrderDispatchDate)
	})
	return out, nil
}

func (m *mockRepository) Update(ctx context.Context, id string, sale Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sales[id]; !ok {
		return ErrNotFound
	}
	sale.ID = id
	m.sales[id] = sale
	return nil
}

func (m *mockRepository) SetPaymentStatus(ctx context.Context, id string, status PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusWrites++
	if m.setStatusErr != nil {
		return m.setStatusErr
	}
	s, ok := m.sales[id]
	if !ok {
		return ErrNotFound
	}
	s.PaymentStatus = status
	m.sales[id] = s
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.sales[id]; !ok {
		return ErrNotFound
	}
	delete(m.sales, id)
	return nil
}

func (m *mockRepository) ReplaceAll(ctx context.Context, sales []Sale) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = make(map[string]Sale)
	for _, s := range sales {
		s.ID = m.newID()
		m.sales[s.ID] = s
	}
	return len(sales), nil
}

func (m *mockRepository) stored(id string) Sale {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sales[id]
}

type recorderStub struct {
	transitioned int
	failed       int
	calls        int
}

func (r *recorderStub) ObserveReconciliation(transitioned, failed int) {
	r.transitioned += transitioned
	r.failed += failed
	r.calls++
}

var fixedNow = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func testSale(id, vendor, area, product string, qty int, amount int64, status PaymentStatus, dispatch time.Time, due *time.Time) Sale {
	s := NewSale(dispatch, vendor, area, "Tractor", product, qty, decimal.NewFromInt(amount))
	s.ID = id
	s.PaymentStatus = status
	s.DueDate = due
	return s
}

func newTestService(repo Repository, rec Recorder) *Service {
	return NewService(repo, ServiceConfig{
		Location: time.UTC,
		Recorder: rec,
		Now:      func() time.Time { return fixedNow },
	})
}
