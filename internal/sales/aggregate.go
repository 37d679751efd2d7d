package sales

import "github.com/shopspring/decimal"

// ComputeMetrics reduces the sales into the dashboard figures.
func ComputeMetrics(sales []Sale) Metrics {
	m := Metrics{
		TotalRevenue:  decimal.Zero,
		SalesByArea:   make(map[string]int),
		VendorsByArea: make(map[string]int),
	}
	vendors := make(map[string]struct{})
	areaVendors := make(map[string]map[string]struct{})

	for _, s := range sales {
		m.TotalRevenue = m.TotalRevenue.Add(s.TotalBillAmount)
		m.TotalProductsSold += s.QtyOrdered
		vendors[s.VendorName] = struct{}{}
		m.SalesByArea[s.Area] += s.QtyOrdered

		set, ok := areaVendors[s.Area]
		if !ok {
			set = make(map[string]struct{})
			areaVendors[s.Area] = set
		}
		set[s.VendorName] = struct{}{}
	}

	m.UniqueVendors = len(vendors)
	m.UniqueAreasCovered = len(areaVendors)
	for area, set := range areaVendors {
		m.VendorsByArea[area] = len(set)
	}
	return m
}

// DeriveFilterOptions collects distinct areas, products and transports in
// first-seen order.
func DeriveFilterOptions(sales []Sale) FilterOptions {
	return FilterOptions{
		Areas:      distinct(sales, func(s Sale) string { return s.Area }),
		Products:   distinct(sales, func(s Sale) string { return s.ProductOrdered }),
		Transports: distinct(sales, func(s Sale) string { return s.Transport }),
	}
}

func distinct(sales []Sale, field func(Sale) string) []string {
	seen := make(map[string]struct{}, len(sales))
	out := make([]string, 0)
	for _, s := range sales {
		value := field(s)
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
