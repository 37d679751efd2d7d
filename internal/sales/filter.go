package sales

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Filter holds the dashboard filter exactly as requested, echoed back to the view.
type Filter struct {
	Area          string `json:"area,omitempty"`
	Product       string `json:"product,omitempty"`
	Transport     string `json:"transport,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
	StartDate     string `json:"startDate,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
}

// FilterFromValues reads the recognised keys from a query string.
func FilterFromValues(values url.Values) Filter {
	return Filter{
		Area:          strings.TrimSpace(values.Get("area")),
		Product:       strings.TrimSpace(values.Get("product")),
		Transport:     strings.TrimSpace(values.Get("transport")),
		PaymentStatus: strings.TrimSpace(values.Get("paymentStatus")),
		StartDate:     strings.TrimSpace(values.Get("startDate")),
		EndDate:       strings.TrimSpace(values.Get("endDate")),
	}
}

// Values encodes the active constraints, skipping sentinels.
func (f Filter) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if constrained(value) {
			values.Set(key, value)
		}
	}
	set("area", f.Area)
	set("product", f.Product)
	set("transport", f.Transport)
	set("paymentStatus", f.PaymentStatus)
	set("startDate", f.StartDate)
	set("endDate", f.EndDate)
	return values
}

// Query translates the filter into a store query. Dates are read in loc.
func (f Filter) Query(loc *time.Location) (Query, error) {
	var q Query
	if constrained(f.Area) {
		q.Area = f.Area
	}
	if constrained(f.Product) {
		q.Product = f.Product
	}
	if constrained(f.Transport) {
		q.Transport = f.Transport
	}
	if constrained(f.PaymentStatus) {
		// Matched exactly, so a value outside the enum selects nothing.
		q.Status = PaymentStatus(f.PaymentStatus)
	}
	if constrained(f.StartDate) {
		from, err := ParseDate(f.StartDate, loc)
		if err != nil {
			return Query{}, fmt.Errorf("%w: startDate %q", ErrInvalidFilter, f.StartDate)
		}
		q.From = &from
	}
	if constrained(f.EndDate) {
		to, err := ParseDate(f.EndDate, loc)
		if err != nil {
			return Query{}, fmt.Errorf("%w: endDate %q", ErrInvalidFilter, f.EndDate)
		}
		q.To = &to
	}
	return q, nil
}

func constrained(value string) bool {
	return value != "" && value != FilterAll
}
