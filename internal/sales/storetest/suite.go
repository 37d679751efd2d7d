// Package storetest holds the behaviour every sales.Repository must share.
// Store packages run it from their own tests.
package storetest

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/krishi-ledger/krishi-ledger/internal/sales"
)

// Suite exercises a sales.Repository. NewRepo must return an empty store.
type Suite struct {
	suite.Suite

	NewRepo     func() sales.Repository
	MissingID   func() string
	MalformedID string

	repo sales.Repository
	ctx  context.Context
}

// SetupTest runs before each test in the suite.
func (s *Suite) SetupTest() {
	s.repo = s.NewRepo()
	s.ctx = context.Background()
}

func civil(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Suite) sample(vendor, area, product string, dispatch time.Time, status sales.PaymentStatus) sales.Sale {
	sale := sales.NewSale(dispatch, vendor, area, "Tractor", product, 10, decimal.RequireFromString("1250.50"))
	sale.PaymentStatus = status
	return sale
}

func (s *Suite) insert(sale sales.Sale) string {
	id, err := s.repo.Insert(s.ctx, sale)
	s.Require().NoError(err)
	s.Require().NotEmpty(id)
	return id
}

func (s *Suite) TestInsertAndGetRoundTrip() {
	due := civil(2024, 7, 15)
	sale := s.sample("Ramesh Traders", "Mungeli", "Urea", civil(2024, 7, 1), sales.StatusDue)
	sale.Contact = "9876543210"
	sale.DueDate = &due

	id := s.insert(sale)
	got, err := s.repo.Get(s.ctx, id)
	s.Require().NoError(err)

	s.Equal(id, got.ID)
	s.Equal("2024-07-01", got.OrderDispatchDate.Format(sales.DateLayout))
	s.Require().NotNil(got.DueDate)
	s.Equal("2024-07-15", got.DueDate.Format(sales.DateLayout))
	s.Equal("Ramesh Traders", got.VendorName)
	s.Equal("9876543210", got.Contact)
	s.Equal("Mungeli", got.Area)
	s.Equal("Tractor", got.Transport)
	s.Equal("Urea", got.ProductOrdered)
	s.Equal(10, got.QtyOrdered)
	s.True(decimal.RequireFromString("1250.50").Equal(got.TotalBillAmount), "amount %s", got.TotalBillAmount)
	s.Equal(sales.StatusDue, got.PaymentStatus)
}

func (s *Suite) TestOptionalFieldsStayEmpty() {
	id := s.insert(s.sample("Suresh", "Takhatpur", "DAP", civil(2024, 7, 2), sales.StatusPaid))
	got, err := s.repo.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Nil(got.DueDate)
	s.Empty(got.Contact)
}

func (s *Suite) TestListFiltersAndSorts() {
	s.insert(s.sample("A", "Mungeli", "Urea", civil(2024, 1, 10), sales.StatusPaid))
	s.insert(s.sample("B", "Takhatpur", "Urea", civil(2024, 1, 20), sales.StatusDue))
	s.insert(s.sample("C", "Mungeli", "DAP", civil(2024, 1, 5), sales.StatusDue))
	s.insert(s.sample("D", "Mungeli", "Urea", civil(2024, 1, 15), sales.StatusOverdue))

	all, err := s.repo.List(s.ctx, sales.Query{})
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	s.Equal([]string{"B", "D", "A", "C"}, vendors(all))

	mungeli, err := s.repo.List(s.ctx, sales.Query{Area: "Mungeli", Product: "Urea"})
	s.Require().NoError(err)
	s.Equal([]string{"D", "A"}, vendors(mungeli))

	due, err := s.repo.List(s.ctx, sales.Query{Status: sales.StatusDue})
	s.Require().NoError(err)
	s.Equal([]string{"B", "C"}, vendors(due))

	none, err := s.repo.List(s.ctx, sales.Query{Transport: "Bullock cart"})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *Suite) TestListDateRangeIsInclusive() {
	s.insert(s.sample("A", "Mungeli", "Urea", civil(2024, 1, 1), sales.StatusPaid))
	s.insert(s.sample("B", "Mungeli", "Urea", civil(2024, 1, 15), sales.StatusPaid))
	s.insert(s.sample("C", "Mungeli", "Urea", civil(2024, 1, 31), sales.StatusPaid))
	s.insert(s.sample("D", "Mungeli", "Urea", civil(2024, 2, 1), sales.StatusPaid))

	from, to := civil(2024, 1, 1), civil(2024, 1, 31)
	ranged, err := s.repo.List(s.ctx, sales.Query{From: &from, To: &to})
	s.Require().NoError(err)
	s.Equal([]string{"C", "B", "A"}, vendors(ranged))

	openEnded, err := s.repo.List(s.ctx, sales.Query{From: &to})
	s.Require().NoError(err)
	s.Equal([]string{"D", "C"}, vendors(openEnded))
}

func (s *Suite) TestSetPaymentStatusOnlyTouchesStatus() {
	id := s.insert(s.sample("A", "Mungeli", "Urea", civil(2024, 1, 1), sales.StatusDue))

	s.Require().NoError(s.repo.SetPaymentStatus(s.ctx, id, sales.StatusOverdue))
	got, err := s.repo.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(sales.StatusOverdue, got.PaymentStatus)
	s.Equal("A", got.VendorName)
	s.Equal(10, got.QtyOrdered)
}

func (s *Suite) TestUpdateReplacesFields() {
	id := s.insert(s.sample("A", "Mungeli", "Urea", civil(2024, 1, 1), sales.StatusDue))

	changed := s.sample("A2", "Bilaspur", "Potash", civil(2024, 2, 2), sales.StatusPaid)
	changed.QtyOrdered = 42
	s.Require().NoError(s.repo.Update(s.ctx, id, changed))

	got, err := s.repo.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(id, got.ID)
	s.Equal("A2", got.VendorName)
	s.Equal("Bilaspur", got.Area)
	s.Equal(42, got.QtyOrdered)
	s.Equal(sales.StatusPaid, got.PaymentStatus)
	s.Equal("2024-02-02", got.OrderDispatchDate.Format(sales.DateLayout))
}

func (s *Suite) TestWritesDefaultEmptyStatusToDue() {
	id := s.insert(s.sample("A", "Mungeli", "Urea", civil(2024, 1, 1), ""))
	got, err := s.repo.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(sales.StatusDue, got.PaymentStatus)

	s.Require().NoError(s.repo.Update(s.ctx, id, s.sample("A", "Mungeli", "Urea", civil(2024, 1, 1), "")))
	got, err = s.repo.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(sales.StatusDue, got.PaymentStatus)
}

func (s *Suite) TestWritesRejectUnknownStatus() {
	id := s.insert(s.sample("A", "Mungeli", "Urea", civil(2024, 1, 1), sales.StatusPaid))

	_, err := s.repo.Insert(s.ctx, s.sample("B", "Mungeli", "Urea", civil(2024, 1, 2), "Bogus"))
	s.ErrorIs(err, sales.ErrInvalidStatus)

	s.ErrorIs(s.repo.Update(s.ctx, id, s.sample("A", "Mungeli", "Urea", civil(2024, 1, 1), "Nope")), sales.ErrInvalidStatus)
	s.ErrorIs(s.repo.SetPaymentStatus(s.ctx, id, "overdue"), sales.ErrInvalidStatus)

	_, err = s.repo.ReplaceAll(s.ctx, []sales.Sale{
		s.sample("C", "Mungeli", "Urea", civil(2024, 1, 3), sales.StatusDue),
		s.sample("D", "Mungeli", "Urea", civil(2024, 1, 4), "Pending"),
	})
	s.ErrorIs(err, sales.ErrInvalidStatus)

	all, err := s.repo.List(s.ctx, sales.Query{})
	s.Require().NoError(err)
	s.Equal([]string{"A"}, vendors(all), "rejected writes leave the store untouched")
	s.Equal(sales.StatusPaid, all[0].PaymentStatus)
}

func (s *Suite) TestDelete() {
	id := s.insert(s.sample("A", "Mungeli", "Urea", civil(2024, 1, 1), sales.StatusDue))

	s.Require().NoError(s.repo.Delete(s.ctx, id))
	_, err := s.repo.Get(s.ctx, id)
	s.ErrorIs(err, sales.ErrNotFound)
	s.ErrorIs(s.repo.Delete(s.ctx, id), sales.ErrNotFound)
}

func (s *Suite) TestMissingID() {
	missing := s.MissingID()
	_, err := s.repo.Get(s.ctx, missing)
	s.ErrorIs(err, sales.ErrNotFound)
	s.ErrorIs(s.repo.Update(s.ctx, missing, s.sample("A", "Mungeli", "Urea", civil(2024, 1, 1), sales.StatusDue)), sales.ErrNotFound)
	s.ErrorIs(s.repo.SetPaymentStatus(s.ctx, missing, sales.StatusOverdue), sales.ErrNotFound)
}

func (s *Suite) TestMalformedID() {
	_, err := s.repo.Get(s.ctx, s.MalformedID)
	s.ErrorIs(err, sales.ErrInvalidID)
	s.ErrorIs(s.repo.Delete(s.ctx, s.MalformedID), sales.ErrInvalidID)
	s.ErrorIs(s.repo.SetPaymentStatus(s.ctx, s.MalformedID, sales.StatusPaid), sales.ErrInvalidID)
}

func (s *Suite) TestReplaceAll() {
	s.insert(s.sample("Old", "Mungeli", "Urea", civil(2024, 1, 1), sales.StatusDue))

	n, err := s.repo.ReplaceAll(s.ctx, []sales.Sale{
		s.sample("New1", "Mungeli", "Urea", civil(2024, 3, 1), sales.StatusDue),
		s.sample("New2", "Takhatpur", "DAP", civil(2024, 3, 2), sales.StatusPaid),
	})
	s.Require().NoError(err)
	s.Equal(2, n)

	all, err := s.repo.List(s.ctx, sales.Query{})
	s.Require().NoError(err)
	s.Equal([]string{"New2", "New1"}, vendors(all))
}

func vendors(list []sales.Sale) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.VendorName
	}
	return out
}
