// Package pricing is the single source of monetary computation for
// commercial documents. Order and invoice lines both price through
// LineAmount, and document totals always come from ComputeTotals.
package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// MaxPercent is the upper bound for discount and tax percentages.
var MaxPercent = hundred

// ValidPercent reports whether pct lies in [0, 100].
func ValidPercent(pct decimal.Decimal) bool {
	return !pct.IsNegative() && !pct.GreaterThan(MaxPercent)
}

// LineAmount computes the net amount of a single document line:
// quantity * unit price, reduced by the line discount percentage, rounded
// half away from zero at 2 decimal places. A discount of exactly zero skips
// the multiplication so a clean product is not pushed through an extra
// decimal operation.
func LineAmount(quantity int, unitPrice, discountPct decimal.Decimal) decimal.Decimal {
	amount := decimal.NewFromInt(int64(quantity)).Mul(unitPrice)
	if discountPct.IsPositive() {
		amount = amount.Mul(one.Sub(discountPct.Div(hundred)))
	}
	return amount.Round(2)
}

// TaxableLine is the per-line input to the totals aggregation: the already
// computed net amount and the line's tax percentage.
type TaxableLine struct {
	NetAmount decimal.Decimal
	TaxPct    decimal.Decimal
}

// Totals holds the denormalized document totals.
type Totals struct {
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Gross decimal.Decimal
}

// ComputeTotals aggregates line amounts into document totals.
//
// The computation order is fixed for compatibility with historical
// documents: each line's tax is rounded independently before summing, the
// document-level discount is applied to the already-rounded sums rather
// than redistributed per line, and the gross is rounded once from the
// unrounded discounted net and tax. Net, tax and gross round independently,
// so stored net + tax can differ from gross by a cent; that divergence is
// accepted.
func ComputeTotals(lines []TaxableLine, globalDiscountPct decimal.Decimal) Totals {
	net := decimal.Zero
	tax := decimal.Zero
	for _, line := range lines {
		net = net.Add(line.NetAmount)
		tax = tax.Add(line.NetAmount.Mul(line.TaxPct).Div(hundred).Round(2))
	}

	if globalDiscountPct.IsPositive() {
		factor := one.Sub(globalDiscountPct.Div(hundred))
		net = net.Mul(factor)
		tax = tax.Mul(factor)
	}

	return Totals{
		Net:   net.Round(2),
		Tax:   tax.Round(2),
		Gross: net.Add(tax).Round(2),
	}
}
