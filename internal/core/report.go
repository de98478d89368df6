package core

import "github.com/shopspring/decimal"

// Column names of the report table, in display order.
const (
	ColumnYear            = "Year"
	ColumnMonth           = "Month"
	ColumnShippingCountry = "Shipping Country"
	ColumnOrderCount      = "Order Count"
	ColumnTotalRevenue    = "Total Revenue"
)

// CountryAggregateRow totals qualifying orders for one shipping country.
type CountryAggregateRow struct {
	ShippingCountry string
	OrderCount      int64
	TotalRevenue    decimal.Decimal
}

// MonthlyAggregateRow totals qualifying orders of one country for one calendar month.
type MonthlyAggregateRow struct {
	Year            int
	Month           int // 1-12
	ShippingCountry string
	OrderCount      int64
	TotalRevenue    decimal.Decimal
}

// Report is the result of one report request. Country is empty for the main
// report; otherwise Months holds the scoped rows.
type Report struct {
	Country   string
	Countries []CountryAggregateRow
	Months    []MonthlyAggregateRow
}

// Field is one named value of a report record.
type Field struct {
	Column string
	Value  any
}

// Record is one report row as an ordered list of fields.
type Record []Field

// Scoped reports whether the report is filtered to a single country.
func (r Report) Scoped() bool {
	return r.Country != ""
}

// Len returns the number of rows in the report.
func (r Report) Len() int {
	if r.Scoped() {
		return len(r.Months)
	}
	return len(r.Countries)
}

// Empty reports whether the report has no rows.
func (r Report) Empty() bool {
	return r.Len() == 0
}

// Columns returns the column names of the report, in display order.
func (r Report) Columns() []string {
	if r.Scoped() {
		return []string{ColumnYear, ColumnMonth, ColumnShippingCountry, ColumnOrderCount, ColumnTotalRevenue}
	}
	return []string{ColumnShippingCountry, ColumnOrderCount, ColumnTotalRevenue}
}

// Records converts the report rows to ordered column/value records.
func (r Report) Records() []Record {
	records := make([]Record, 0, r.Len())
	if r.Scoped() {
		for _, m := range r.Months {
			records = append(records, Record{
				{Column: ColumnYear, Value: m.Year},
				{Column: ColumnMonth, Value: m.Month},
				{Column: ColumnShippingCountry, Value: m.ShippingCountry},
				{Column: ColumnOrderCount, Value: m.OrderCount},
				{Column: ColumnTotalRevenue, Value: m.TotalRevenue},
			})
		}
		return records
	}
	for _, c := range r.Countries {
		records = append(records, Record{
			{Column: ColumnShippingCountry, Value: c.ShippingCountry},
			{Column: ColumnOrderCount, Value: c.OrderCount},
			{Column: ColumnTotalRevenue, Value: c.TotalRevenue},
		})
	}
	return records
}
