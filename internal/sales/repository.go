package sales

import "context"

// Repository is the persistence contract for sales. Implementations live in
// the postgres, mongo and memory subpackages.
type Repository interface {
	// Insert stores a new sale and returns the identifier assigned by the store.
	Insert(ctx context.Context, sale Sale) (string, error)
	// Get loads a single sale.
	Get(ctx context.Context, id string) (*Sale, error)
	// List returns the sales matching q, most recent dispatch first.
	List(ctx context.Context, q Query) ([]Sale, error)
	// Update replaces every persisted field of the sale.
	Update(ctx context.Context, id string, sale Sale) error
	// SetPaymentStatus updates the payment status field only.
	SetPaymentStatus(ctx context.Context, id string, status PaymentStatus) error
	// Delete removes the sale.
	Delete(ctx context.Context, id string) error
	// ReplaceAll clears the store and inserts the given sales.
	ReplaceAll(ctx context.Context, sales []Sale) (int, error)
}

// StatusWriter is the slice of Repository used by reconciliation.
type StatusWriter interface {
	SetPaymentStatus(ctx context.Context, id string, status PaymentStatus) error
}
