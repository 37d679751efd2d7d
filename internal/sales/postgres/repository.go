// Package postgres stores sales in a PostgreSQL table through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/krishi-ledger/krishi-ledger/internal/platform/db"
	"github.com/krishi-ledger/krishi-ledger/internal/sales"
)

// Schema creates the sales table when missing.
const Schema = `
CREATE TABLE IF NOT EXISTS sales (
	id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	order_dispatch_date DATE NOT NULL,
	vendor_name         TEXT NOT NULL,
	contact             TEXT NOT NULL DEFAULT '',
	area                TEXT NOT NULL,
	transport           TEXT NOT NULL,
	total_bill_amount   NUMERIC(14,2) NOT NULL,
	due_date            DATE,
	product_ordered     TEXT NOT NULL,
	qty_ordered         INTEGER NOT NULL,
	payment_status      TEXT NOT NULL DEFAULT 'Due' CHECK (payment_status IN ('Paid', 'Due', 'Overdue')),
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS sales_dispatch_idx ON sales (order_dispatch_date DESC);
CREATE INDEX IF NOT EXISTS sales_status_due_idx ON sales (payment_status, due_date);
`

const selectColumns = `id::text, order_dispatch_date, vendor_name, contact, area, transport,
	total_bill_amount::text, due_date, product_ordered, qty_ordered, payment_status`

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type pool interface {
	dbtx
	db.TxBeginner
}

// Repository implements sales.Repository on PostgreSQL.
type Repository struct {
	pool pool
}

// NewRepository wraps a pgx pool.
func NewRepository(p pool) *Repository {
	return &Repository{pool: p}
}

var _ sales.Repository = (*Repository)(nil)

// EnsureSchema applies Schema.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure sales schema: %w", err)
	}
	return nil
}

func (r *Repository) Insert(ctx context.Context, sale sales.Sale) (string, error) {
	return insert(ctx, r.pool, sale)
}

func insert(ctx context.Context, q dbtx, sale sales.Sale) (string, error) {
	args, err := civilArgs(sale)
	if err != nil {
		return "", err
	}
	var id string
	err = q.QueryRow(ctx, `
		INSERT INTO sales (order_dispatch_date, vendor_name, contact, area, transport,
		                   total_bill_amount, due_date, product_ordered, qty_ordered, payment_status)
		VALUES ($1::date, $2, $3, $4, $5, $6::numeric, $7::date, $8, $9, $10)
		RETURNING id::text`,
		args...,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert sale: %w", err)
	}
	return id, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*sales.Sale, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	row := r.pool.QueryRow(ctx, "SELECT "+selectColumns+" FROM sales WHERE id = $1", id)
	sale, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sales.ErrNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &sale, nil
}

func (r *Repository) List(ctx context.Context, q sales.Query) ([]sales.Sale, error) {
	where, args := buildWhere(q)
	query := fmt.Sprintf("SELECT %s FROM sales %s ORDER BY order_dispatch_date DESC, created_at DESC", selectColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	out := make([]sales.Sale, 0)
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return out, nil
}

func (r *Repository) Update(ctx context.Context, id string, sale sales.Sale) error {
	if err := validID(id); err != nil {
		return err
	}
	args, err := civilArgs(sale)
	if err != nil {
		return err
	}
	args = append(args, id)
	tag, err := r.pool.Exec(ctx, `
		UPDATE sales SET
			order_dispatch_date = $1::date,
			vendor_name = $2,
			contact = $3,
			area = $4,
			transport = $5,
			total_bill_amount = $6::numeric,
			due_date = $7::date,
			product_ordered = $8,
			qty_ordered = $9,
			payment_status = $10
		WHERE id = $11`, args...)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sales.ErrNotFound
	}
	return nil
}

func (r *Repository) SetPaymentStatus(ctx context.Context, id string, status sales.PaymentStatus) error {
	if !status.Valid() {
		return sales.ErrInvalidStatus
	}
	if err := validID(id); err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `UPDATE sales SET payment_status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("set payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sales.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sales.ErrNotFound
	}
	return nil
}

// ReplaceAll truncates the table and inserts batch in one transaction.
func (r *Repository) ReplaceAll(ctx context.Context, batch []sales.Sale) (int, error) {
	err := db.WithTx(ctx, r.pool, pgx.ReadCommitted, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM sales`); err != nil {
			return fmt.Errorf("clear sales: %w", err)
		}
		for _, sale := range batch {
			if _, err := insert(ctx, tx, sale); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(batch), nil
}

// buildWhere turns the query into a WHERE clause with positional args.
func buildWhere(q sales.Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	add := func(expr string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(expr, len(args)))
	}

	if q.Area != "" {
		add("area = $%d", q.Area)
	}
	if q.Product != "" {
		add("product_ordered = $%d", q.Product)
	}
	if q.Transport != "" {
		add("transport = $%d", q.Transport)
	}
	if q.Status != "" {
		add("payment_status = $%d", string(q.Status))
	}
	if q.From != nil {
		add("order_dispatch_date >= $%d::date", q.From.Format(sales.DateLayout))
	}
	if q.To != nil {
		add("order_dispatch_date <= $%d::date", q.To.Format(sales.DateLayout))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func civilArgs(sale sales.Sale) ([]interface{}, error) {
	var due *string
	if sale.HasDueDate() {
		d := sale.DueDate.Format(sales.DateLayout)
		due = &d
	}
	status, err := sales.ParsePaymentStatus(string(sale.PaymentStatus))
	if err != nil {
		return nil, err
	}
	return []interface{}{
		sale.OrderDispatchDate.Format(sales.DateLayout),
		sale.VendorName,
		sale.Contact,
		sale.Area,
		sale.Transport,
		sale.TotalBillAmount.String(),
		due,
		sale.ProductOrdered,
		sale.QtyOrdered,
		string(status),
	}, nil
}

func scanSale(row pgx.Row) (sales.Sale, error) {
	var (
		s      sales.Sale
		amount string
		due    *time.Time
		status string
	)
	if err := row.Scan(
		&s.ID,
		&s.OrderDispatchDate,
		&s.VendorName,
		&s.Contact,
		&s.Area,
		&s.Transport,
		&amount,
		&due,
		&s.ProductOrdered,
		&s.QtyOrdered,
		&status,
	); err != nil {
		return sales.Sale{}, err
	}
	total, err := decimal.NewFromString(amount)
	if err != nil {
		return sales.Sale{}, fmt.Errorf("scan total_bill_amount: %w", err)
	}
	s.TotalBillAmount = total
	s.DueDate = due
	s.PaymentStatus = sales.PaymentStatus(status)
	return s, nil
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return sales.ErrInvalidID
	}
	return nil
}
