package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/krishi-ledger/krishi-ledger/internal/sales"
)

type sampleRow struct {
	dispatch  string
	vendor    string
	contact   string
	area      string
	transport string
	amount    int64
	due       string
	product   string
	qty       int
	status    sales.PaymentStatus
}

var sampleRows = []sampleRow{
	{"2025-01-10", "ABC Agency", "+91-9876543210", "Takhatpur", "Rishabh Transport", 7000, "2025-02-24", "143 Poshan", 20, sales.StatusDue},
	{"2025-01-15", "GK Agency", "+91-8765432109", "Takhatpur", "Rishabh Transport", 4000, "2025-03-01", "138 KeetHar", 10, sales.StatusDue},
	{"2025-01-30", "KR Krishi Kendra", "+91-7654321098", "Bhatapara", "MP Transways", 15000, "2025-03-16", "123 FasalKavach", 30, sales.StatusDue},
	{"2025-02-01", "ABC Agency", "+91-9876543210", "Takhatpur", "Rishabh Transport", 3500, "2025-03-18", "121 BhuRakshak", 10, sales.StatusDue},
	{"2025-02-05", "KR Kendra", "+91-6543210987", "Mungeli", "Mahaveer Transport", 4000, "2025-03-22", "117 FasalKavach", 10, sales.StatusDue},
	{"2025-02-05", "KR Kendra", "+91-6543210987", "Mungeli", "Mahaveer Transport", 7000, "2025-03-22", "117 Poshan+", 10, sales.StatusDue},
	{"2025-02-05", "KR Kendra", "+91-6543210987", "Mungeli", "Mahaveer Transport", 14200, "2025-03-22", "117 KeetHar", 20, sales.StatusDue},
	{"2025-02-05", "KR Kendra", "+91-6543210987", "Mungeli", "Mahaveer Transport", 15750, "2025-03-22", "117 KeetNashak+", 20, sales.StatusDue},
	{"2025-01-20", "ABC Agency", "+91-9876543210", "Takhatpur", "Rishabh Transport", 8000, "2025-02-20", "143 Poshan", 25, sales.StatusPaid},
	{"2025-01-25", "GK Agency", "+91-8765432109", "Takhatpur", "Rishabh Transport", 6000, "2025-02-25", "138 KeetHar", 15, sales.StatusOverdue},
	{"2025-02-10", "KR Krishi Kendra", "+91-7654321098", "Bhatapara", "MP Transways", 12000, "2025-03-10", "123 FasalKavach", 25, sales.StatusPaid},
	{"2025-02-15", "ABC Agency", "+91-9876543210", "Takhatpur", "Rishabh Transport", 4500, "2025-03-15", "121 BhuRakshak", 12, sales.StatusDue},
}

// sampleSales builds the fixed sample records with dates read in loc.
func sampleSales(loc *time.Location) ([]sales.Sale, error) {
	out := make([]sales.Sale, 0, len(sampleRows))
	for i, row := range sampleRows {
		dispatch, err := sales.ParseDate(row.dispatch, loc)
		if err != nil {
			return nil, fmt.Errorf("sample %d dispatch date: %w", i, err)
		}
		due, err := sales.ParseDate(row.due, loc)
		if err != nil {
			return nil, fmt.Errorf("sample %d due date: %w", i, err)
		}
		sale := sales.NewSale(dispatch, row.vendor, row.area, row.transport, row.product, row.qty, decimal.NewFromInt(row.amount))
		sale.Contact = row.contact
		sale.DueDate = &due
		sale.PaymentStatus = row.status
		out = append(out, sale)
	}
	return out, nil
}
