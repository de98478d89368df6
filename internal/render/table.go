package render

import (
	"geosales/internal/core"
	"geosales/internal/countries"

	"github.com/shopspring/decimal"
)

// Cell is one rendered table cell. Href is set when the cell links somewhere.
type Cell struct {
	Text string
	Href string
}

// Table is a rendered report ready for a template or a terminal.
type Table struct {
	Headers []string
	Rows    [][]Cell
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// LinkFunc returns the URL that scopes the report to a country code.
type LinkFunc func(code string) string

// Renderer maps report records to display cells.
type Renderer struct {
	format *Formatter
	dir    countries.Directory
}

func NewRenderer(format *Formatter, dir countries.Directory) *Renderer {
	return &Renderer{format: format, dir: dir}
}

// CountryName returns the display name of a country code.
func (r *Renderer) CountryName(code string) string {
	return r.dir.Name(code)
}

// Formatter returns the formatter used for amounts and counts.
func (r *Renderer) Formatter() *Formatter {
	return r.format
}

// Table renders rep. Country cells link through link on the main report;
// a nil link renders plain names. Headers come from the first record.
func (r *Renderer) Table(rep core.Report, link LinkFunc) Table {
	records := rep.Records()
	t := Table{Rows: make([][]Cell, 0, len(records))}
	if len(records) == 0 {
		return t
	}
	for _, f := range records[0] {
		t.Headers = append(t.Headers, f.Column)
	}
	for _, rec := range records {
		row := make([]Cell, 0, len(rec))
		for _, f := range rec {
			row = append(row, r.Cell(f, rep.Scoped(), link))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Cell renders one field according to its column.
func (r *Renderer) Cell(f core.Field, scoped bool, link LinkFunc) Cell {
	switch f.Column {
	case core.ColumnMonth:
		if m, ok := f.Value.(int); ok {
			return Cell{Text: MonthName(m)}
		}
	case core.ColumnShippingCountry:
		code := Plain(f.Value)
		c := Cell{Text: r.dir.Name(code)}
		if !scoped && link != nil {
			c.Href = link(code)
		}
		return c
	case core.ColumnTotalRevenue:
		if d, ok := f.Value.(decimal.Decimal); ok {
			return Cell{Text: r.format.FormatMoney(d)}
		}
	case core.ColumnOrderCount:
		if n, ok := f.Value.(int64); ok {
			return Cell{Text: r.format.FormatCount(n)}
		}
	}
	return Cell{Text: Plain(f.Value)}
}

// Values returns the report as raw spreadsheet values: a header row followed
// by one row per record. Amounts keep two decimals and codes are not
// translated, so the export stays machine readable.
func Values(rep core.Report, dir countries.Directory) [][]any {
	cols := rep.Columns()
	header := make([]any, 0, len(cols)+1)
	for _, c := range cols {
		header = append(header, c)
		if c == core.ColumnShippingCountry {
			header = append(header, "Country Name")
		}
	}
	out := [][]any{header}
	for _, rec := range rep.Records() {
		row := make([]any, 0, len(rec)+1)
		for _, f := range rec {
			switch v := f.Value.(type) {
			case decimal.Decimal:
				row = append(row, v.StringFixed(core.MoneyScale))
			default:
				row = append(row, v)
			}
			if f.Column == core.ColumnShippingCountry {
				row = append(row, dir.Name(Plain(f.Value)))
			}
		}
		out = append(out, row)
	}
	return out
}
