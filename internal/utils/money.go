package utils

import "github.com/shopspring/decimal"

// MoneyScale and MoneyLimit mirror the NUMERIC(12,2) money columns.
const MoneyScale = 2

var MoneyLimit = decimal.New(1, 10)

// FitsMoney reports whether d is positive and storable without rounding or overflow.
func FitsMoney(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Round(MoneyScale)) && d.LessThan(MoneyLimit)
}
