// Package memory keeps sales in process memory. It backs tests and the
// STORE_DRIVER=memory mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/krishi-ledger/krishi-ledger/internal/sales"
)

// Repository is a concurrency-safe in-memory sales store.
type Repository struct {
	mu    sync.RWMutex
	sales map[string]sales.Sale
}

// NewRepository returns an empty store.
func NewRepository() *Repository {
	return &Repository{sales: make(map[string]sales.Sale)}
}

var _ sales.Repository = (*Repository)(nil)

func (r *Repository) Insert(ctx context.Context, sale sales.Sale) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	status, err := sales.ParsePaymentStatus(string(sale.PaymentStatus))
	if err != nil {
		return "", err
	}
	sale.PaymentStatus = status
	r.mu.Lock()
	defer r.mu.Unlock()
	sale.ID = uuid.NewString()
	sale.OverdueDays = 0
	r.sales[sale.ID] = sale
	return sale.ID, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*sales.Sale, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sale, ok := r.sales[id]
	if !ok {
		return nil, sales.ErrNotFound
	}
	return &sale, nil
}

func (r *Repository) List(ctx context.Context, q sales.Query) ([]sales.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]sales.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		if q.Matches(s) {
			out = append(out, s)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OrderDispatchDate.Equal(out[j].OrderDispatchDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].OrderDispatchDate.After(out[j].OrderDispatchDate)
	})
	return out, nil
}

func (r *Repository) Update(ctx context.Context, id string, sale sales.Sale) error {
	if err := validID(id); err != nil {
		return err
	}
	status, err := sales.ParsePaymentStatus(string(sale.PaymentStatus))
	if err != nil {
		return err
	}
	sale.PaymentStatus = status
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[id]; !ok {
		return sales.ErrNotFound
	}
	sale.ID = id
	sale.OverdueDays = 0
	r.sales[id] = sale
	return nil
}

func (r *Repository) SetPaymentStatus(ctx context.Context, id string, status sales.PaymentStatus) error {
	if !status.Valid() {
		return sales.ErrInvalidStatus
	}
	if err := validID(id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[id]
	if !ok {
		return sales.ErrNotFound
	}
	sale.PaymentStatus = status
	r.sales[id] = sale
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[id]; !ok {
		return sales.ErrNotFound
	}
	delete(r.sales, id)
	return nil
}

func (r *Repository) ReplaceAll(ctx context.Context, batch []sales.Sale) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	fresh := make(map[string]sales.Sale, len(batch))
	for _, s := range batch {
		status, err := sales.ParsePaymentStatus(string(s.PaymentStatus))
		if err != nil {
			return 0, err
		}
		s.PaymentStatus = status
		s.ID = uuid.NewString()
		s.OverdueDays = 0
		fresh[s.ID] = s
	}
	r.mu.Lock()
	r.sales = fresh
	r.mu.Unlock()
	return len(batch), nil
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return sales.ErrInvalidID
	}
	return nil
}
