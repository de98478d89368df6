package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AggregateByCountry groups reportable orders by shipping country.
// Rows are sorted ascending by country code.
func AggregateByCountry(orders []Order) []CountryAggregateRow {
	groups := make(map[string]*CountryAggregateRow)
	for _, o := range orders {
		if !o.Status.Reportable() {
			continue
		}
		g, ok := groups[o.ShippingCountry]
		if !ok {
			g = &CountryAggregateRow{ShippingCountry: o.ShippingCountry, TotalRevenue: decimal.Zero}
			groups[o.ShippingCountry] = g
		}
		g.OrderCount++
		g.TotalRevenue = g.TotalRevenue.Add(RoundMoney(o.Total))
	}

	rows := make([]CountryAggregateRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, *g)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ShippingCountry < rows[j].ShippingCountry })
	return rows
}

type monthKey struct {
	year  int
	month int
}

// AggregateByMonth groups the reportable orders shipped to country by
// calendar month of their UTC creation date. Rows are sorted most recent first.
func AggregateByMonth(orders []Order, country string) []MonthlyAggregateRow {
	groups := make(map[monthKey]*MonthlyAggregateRow)
	for _, o := range orders {
		if !o.Status.Reportable() || o.ShippingCountry != country {
			continue
		}
		created := o.CreatedAt.UTC()
		k := monthKey{year: created.Year(), month: int(created.Month())}
		g, ok := groups[k]
		if !ok {
			g = &MonthlyAggregateRow{Year: k.year, Month: k.month, ShippingCountry: country, TotalRevenue: decimal.Zero}
			groups[k] = g
		}
		g.OrderCount++
		g.TotalRevenue = g.TotalRevenue.Add(RoundMoney(o.Total))
	}

	rows := make([]MonthlyAggregateRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, *g)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year > rows[j].Year
		}
		return rows[i].Month > rows[j].Month
	})
	return rows
}
