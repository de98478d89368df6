// Package core provides money parsing and handling utilities.
//
// Order totals are kept as decimals rounded to cents. SQL backends store and
// sum integer cents so aggregation never goes through floating point.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places kept for order totals.
const MoneyScale = 2

// ParseMoney converts a decimal string to an amount rounded to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half away from zero on the third decimal place. Negative values are
// rejected; zero is allowed since free orders exist.
//
// Examples:
//
//	ParseMoney("12.34")  -> 12.34
//	ParseMoney("12,34")  -> 12.34
//	ParseMoney("12.345") -> 12.35
//	ParseMoney("12.344") -> 12.34
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return RoundMoney(d), nil
}

// RoundMoney rounds an amount to cents, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// ToCents returns the amount in integer cents after rounding.
func ToCents(d decimal.Decimal) int64 {
	return RoundMoney(d).Shift(MoneyScale).IntPart()
}

// FromCents builds an amount from integer cents.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -MoneyScale)
}
