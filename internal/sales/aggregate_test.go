package sales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeMetrics(t *testing.T) {
	sales := []Sale{
		testSale("1", "Ramesh", "Mungeli", "Urea", 10, 7000, StatusPaid, day(2024, 1, 1), nil),
		testSale("2", "Suresh", "Mungeli", "DAP", 10, 4000, StatusDue, day(2024, 1, 2), nil),
		testSale("3", "Ramesh", "Mungeli", "Urea", 20, 15000, StatusPaid, day(2024, 1, 3), nil),
		testSale("4", "Mahesh", "Mungeli", "Potash", 20, 500, StatusOverdue, day(2024, 1, 4), nil),
		testSale("5", "Ramesh", "Takhatpur", "Urea", 5, 2500, StatusPaid, day(2024, 1, 5), nil),
	}

	m := ComputeMetrics(sales)
	assert.True(t, m.TotalRevenue.Equal(decimal.NewFromInt(29000)))
	assert.Equal(t, 65, m.TotalProductsSold)
	assert.Equal(t, 3, m.UniqueVendors)
	assert.Equal(t, 2, m.UniqueAreasCovered)
	assert.Equal(t, 60, m.SalesByArea["Mungeli"])
	assert.Equal(t, 5, m.SalesByArea["Takhatpur"])
	assert.Equal(t, 3, m.VendorsByArea["Mungeli"])
	assert.Equal(t, 1, m.VendorsByArea["Takhatpur"])
}

func TestComputeMetricsKeepsDecimalPrecision(t *testing.T) {
	a := testSale("1", "Ramesh", "Mungeli", "Urea", 1, 0, StatusPaid, day(2024, 1, 1), nil)
	a.TotalBillAmount = decimal.RequireFromString("0.10")
	b := a
	b.TotalBillAmount = decimal.RequireFromString("0.20")

	m := ComputeMetrics([]Sale{a, b})
	assert.Equal(t, "0.3", m.TotalRevenue.String())
}

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(nil)
	assert.True(t, m.TotalRevenue.IsZero())
	assert.Zero(t, m.TotalProductsSold)
	assert.NotNil(t, m.SalesByArea)
	assert.NotNil(t, m.VendorsByArea)
}

func TestDeriveFilterOptions(t *testing.T) {
	sales := []Sale{
		testSale("1", "Ramesh", "Mungeli", "Urea", 1, 1, StatusPaid, day(2024, 1, 1), nil),
		testSale("2", "Ramesh", "Takhatpur", "DAP", 1, 1, StatusPaid, day(2024, 1, 1), nil),
		testSale("3", "Ramesh", "Mungeli", "Urea", 1, 1, StatusPaid, day(2024, 1, 1), nil),
	}
	sales[1].Transport = "Tempo"

	opts := DeriveFilterOptions(sales)
	assert.Equal(t, []string{"Mungeli", "Takhatpur"}, opts.Areas)
	assert.Equal(t, []string{"Urea", "DAP"}, opts.Products)
	assert.Equal(t, []string{"Tractor", "Tempo"}, opts.Transports)

	empty := DeriveFilterOptions(nil)
	assert.NotNil(t, empty.Areas)
	assert.Empty(t, empty.Areas)
}
