package sales

import (
	"encoding/csv"
	"io"
	"strconv"
)

var csvHeader = []string{
	"Dispatch Date", "Vendor", "Contact", "Area", "Transport", "Product",
	"Qty", "Bill Amount", "Due Date", "Status", "Overdue Days",
}

// WriteCSV serialises the sales, one row per record.
func WriteCSV(w io.Writer, sales []Sale) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range sales {
		due := ""
		if s.HasDueDate() {
			due = s.DueDate.Format(DateLayout)
		}
		if err := writer.Write([]string{
			s.OrderDispatchDate.Format(DateLayout),
			s.VendorName,
			s.Contact,
			s.Area,
			s.Transport,
			s.ProductOrdered,
			strconv.Itoa(s.QtyOrdered),
			s.TotalBillAmount.StringFixed(2),
			due,
			string(s.PaymentStatus),
			strconv.Itoa(s.OverdueDays),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
