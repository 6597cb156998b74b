// Package pricing holds the money arithmetic for sales. Amounts are integer
// cents; fractional intermediate values go through decimal and are rounded
// in RoundCents only.
package pricing

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// TaxRate is applied to the subtotal of every sale.
var TaxRate = decimal.RequireFromString("0.13")

// ErrAmountOutOfRange is returned when a priced amount does not fit in int64
// cents.
var ErrAmountOutOfRange = errors.New("amount out of range")

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// Totals is the priced summary of a sale.
type Totals struct {
	SubtotalCents int64
	TaxCents      int64
	DiscountCents int64
	TotalCents    int64
}

// RoundCents rounds a cent-denominated amount to whole cents, half away from
// zero (half-up for the non-negative amounts sales produce).
func RoundCents(amount decimal.Decimal) (int64, error) {
	rounded := amount.Round(0)
	if rounded.GreaterThan(maxCents) || rounded.LessThan(minCents) {
		return 0, ErrAmountOutOfRange
	}
	return rounded.IntPart(), nil
}

func LineTotal(unitPriceCents int64, quantity int) (int64, error) {
	return RoundCents(decimal.NewFromInt(unitPriceCents).Mul(decimal.NewFromInt(int64(quantity))))
}

// Tax never exceeds its subtotal, so it always fits.
func Tax(subtotalCents int64) int64 {
	tax, _ := RoundCents(decimal.NewFromInt(subtotalCents).Mul(TaxRate))
	return tax
}

// Compute prices a sale from its already rounded line totals. The total is
// floored at zero when the discount exceeds subtotal plus tax.
func Compute(lineTotals []int64, discountCents int64) (Totals, error) {
	sum := decimal.Zero
	for _, line := range lineTotals {
		sum = sum.Add(decimal.NewFromInt(line))
	}
	subtotal, err := RoundCents(sum)
	if err != nil {
		return Totals{}, err
	}
	tax := Tax(subtotal)

	gross := decimal.NewFromInt(subtotal).Add(decimal.NewFromInt(tax))
	if _, err := RoundCents(gross); err != nil {
		return Totals{}, err
	}
	total, err := RoundCents(gross.Sub(decimal.NewFromInt(discountCents)))
	if err != nil {
		return Totals{}, err
	}
	if total < 0 {
		total = 0
	}

	return Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		DiscountCents: discountCents,
		TotalCents:    total,
	}, nil
}
