package sales

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus enumerates the billing state of a dispatch.
type PaymentStatus string

const (
	// StatusPaid marks a settled bill. It is never changed automatically.
	StatusPaid PaymentStatus = "Paid"
	// StatusDue marks a bill awaiting payment.
	StatusDue PaymentStatus = "Due"
	// StatusOverdue marks a bill whose due date has passed without payment.
	StatusOverdue PaymentStatus = "Overdue"
)

// FilterAll is the sentinel filter value meaning "no constraint".
const FilterAll = "all"

// DateLayout is the wire format for civil dates in forms and query strings.
const DateLayout = "2006-01-02"

var (
	// ErrNotFound indicates the sale does not exist.
	ErrNotFound = errors.New("sales: sale not found")
	// ErrInvalidID indicates a malformed sale identifier.
	ErrInvalidID = errors.New("sales: invalid sale id")
	// ErrInvalidStatus indicates a payment status outside the enum.
	ErrInvalidStatus = errors.New("sales: invalid payment status")
	// ErrInvalidFilter indicates an unparseable filter value.
	ErrInvalidFilter = errors.New("sales: invalid filter")
)

// Statuses lists the valid payment statuses in display order.
func Statuses() []PaymentStatus {
	return []PaymentStatus{StatusPaid, StatusDue, StatusOverdue}
}

// Valid reports whether the status is one of the enum values.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusDue, StatusOverdue:
		return true
	}
	return false
}

// ParsePaymentStatus resolves a raw value, defaulting empty input to Due.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StatusDue, nil
	}
	status := PaymentStatus(raw)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Sale is one dispatch/billing event.
type Sale struct {
	ID                string          `json:"id"`
	OrderDispatchDate time.Time       `json:"orderDispatchDate"`
	VendorName        string          `json:"vendorName"`
	Contact           string          `json:"contact,omitempty"`
	Area              string          `json:"area"`
	Transport         string          `json:"transport"`
	TotalBillAmount   decimal.Decimal `json:"totalBillAmount"`
	DueDate           *time.Time      `json:"dueDate,omitempty"`
	ProductOrdered    string          `json:"productOrdered"`
	QtyOrdered        int             `json:"qtyOrdered"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus"`

	// OverdueDays is derived on every read and never persisted.
	OverdueDays int `json:"overdueDays"`
}

// NewSale builds a sale with the Due status default applied.
func NewSale(dispatch time.Time, vendor, area, transport, product string, qty int, amount decimal.Decimal) Sale {
	return Sale{
		OrderDispatchDate: dispatch,
		VendorName:        vendor,
		Area:              area,
		Transport:         transport,
		ProductOrdered:    product,
		QtyOrdered:        qty,
		TotalBillAmount:   amount,
		PaymentStatus:     StatusDue,
	}
}

// HasDueDate reports whether a due date is set.
func (s Sale) HasDueDate() bool {
	return s.DueDate != nil && !s.DueDate.IsZero()
}

// Query is the store-level translation of a Filter. Zero value means a full scan.
type Query struct {
	Area      string
	Product   string
	Transport string
	Status    PaymentStatus
	From      *time.Time
	To        *time.Time
}

// IsZero reports whether the query carries no constraint.
func (q Query) IsZero() bool {
	return q.Area == "" && q.Product == "" && q.Transport == "" && q.Status == "" && q.From == nil && q.To == nil
}

// Matches applies the query to a single sale. Stores without a query
// language use it to filter in process.
func (q Query) Matches(s Sale) bool {
	if q.Area != "" && s.Area != q.Area {
		return false
	}
	if q.Product != "" && s.ProductOrdered != q.Product {
		return false
	}
	if q.Transport != "" && s.Transport != q.Transport {
		return false
	}
	if q.Status != "" && s.PaymentStatus != q.Status {
		return false
	}
	if q.From != nil && dateKey(s.OrderDispatchDate) < dateKey(*q.From) {
		return false
	}
	if q.To != nil && dateKey(s.OrderDispatchDate) > dateKey(*q.To) {
		return false
	}
	return true
}

// Metrics are the aggregate figures shown on the dashboard.
type Metrics struct {
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	TotalProductsSold  int             `json:"totalProductsSold"`
	UniqueVendors      int             `json:"uniqueVendors"`
	UniqueAreasCovered int             `json:"uniqueAreasCovered"`
	SalesByArea        map[string]int  `json:"salesByArea"`
	VendorsByArea      map[string]int  `json:"vendorsByArea"`
}

// FilterOptions are the distinct values offered by the filter inputs.
type FilterOptions struct {
	Areas      []string `json:"areas"`
	Products   []string `json:"products"`
	Transports []string `json:"transports"`
}

// Dashboard is the payload handed to the presentation layer.
type Dashboard struct {
	Sales   []Sale        `json:"sales"`
	Metrics Metrics       `json:"metrics"`
	Options FilterOptions `json:"options"`
	Filter  Filter        `json:"currentFilters"`
}
