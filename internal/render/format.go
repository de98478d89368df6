// Package render maps report rows to display values.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatConfig selects the currency and locale used for display.
type FormatConfig struct {
	Currency string // ISO 4217 code
	Symbol   string
	Locale   string // BCP 47 tag
}

// DefaultFormatConfig matches a store selling in US dollars.
func DefaultFormatConfig() FormatConfig {
	return FormatConfig{Currency: "USD", Symbol: "$", Locale: "en"}
}

// Formatter renders amounts and counts for one currency and locale.
type Formatter struct {
	unit    currency.Unit
	symbol  string
	scale   int
	printer *message.Printer
}

func NewFormatter(cfg FormatConfig) (*Formatter, error) {
	unit, err := currency.ParseISO(cfg.Currency)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", cfg.Currency, err)
	}
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", cfg.Locale, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	symbol := cfg.Symbol
	if symbol == "" {
		symbol = unit.String() + " "
	}
	return &Formatter{
		unit:    unit,
		symbol:  symbol,
		scale:   scale,
		printer: message.NewPrinter(tag),
	}, nil
}

// Currency returns the ISO code of the formatter's currency.
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// FormatMoney renders amount with the currency symbol and locale grouping.
func (f *Formatter) FormatMoney(amount decimal.Decimal) string {
	rounded := amount.Round(int32(f.scale))
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	formatted := f.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(f.scale)))
	return sign + f.symbol + formatted
}

// FormatCount renders n with locale thousands grouping.
func (f *Formatter) FormatCount(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// MonthName returns the full English name of a 1-12 month number.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d", month)
	}
	return time.Month(month).String()
}

// Plain renders a value with no column-specific formatting.
func Plain(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case decimal.Decimal:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
