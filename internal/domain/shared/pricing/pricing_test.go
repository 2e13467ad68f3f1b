package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestLineAmount(t *testing.T) {
	tests := []struct {
		name        string
		quantity    int
		unitPrice   string
		discountPct string
		want        string
	}{
		{"no discount", 2, "89.90", "0", "179.80"},
		{"zero quantity", 0, "10.00", "0", "0.00"},
		{"line discount", 10, "10.00", "10", "90.00"},
		{"fractional price rounds half away from zero", 3, "1.005", "0", "3.02"},
		{"discount producing half cent rounds up", 1, "10.01", "50", "5.01"},
		{"four decimal unit price", 7, "12.3456", "0", "86.42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineAmount(tt.quantity, d(tt.unitPrice), d(tt.discountPct))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestLineAmount_Deterministic(t *testing.T) {
	first := LineAmount(13, d("7.7777"), d("12.50"))
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(LineAmount(13, d("7.7777"), d("12.50"))))
	}
}

func TestComputeTotals_ReferenceExample(t *testing.T) {
	// 2 x 89.90 at 20% tax, no discounts
	lines := []TaxableLine{
		{NetAmount: LineAmount(2, d("89.90"), decimal.Zero), TaxPct: d("20")},
	}
	totals := ComputeTotals(lines, decimal.Zero)

	assert.True(t, totals.Net.Equal(d("179.80")), "net = %s", totals.Net)
	assert.True(t, totals.Tax.Equal(d("35.96")), "tax = %s", totals.Tax)
	assert.True(t, totals.Gross.Equal(d("215.76")), "gross = %s", totals.Gross)
}

func TestComputeTotals_GlobalDiscountAppliesAfterLineRounding(t *testing.T) {
	lines := []TaxableLine{
		{NetAmount: d("100.00"), TaxPct: d("20")},
		{NetAmount: d("50.00"), TaxPct: d("5.5")},
	}
	totals := ComputeTotals(lines, d("10"))

	// (100 + 50) * 0.9 = 135.00; (20.00 + 2.75) * 0.9 = 20.475 -> 20.48
	assert.True(t, totals.Net.Equal(d("135.00")), "net = %s", totals.Net)
	assert.True(t, totals.Tax.Equal(d("20.48")), "tax = %s", totals.Tax)
	assert.True(t, totals.Gross.Equal(d("155.48")), "gross = %s", totals.Gross)
}

func TestComputeTotals_GrossRoundsUnroundedDiscountedSums(t *testing.T) {
	// 10.07 at 5.5% discounted by 2.5%: net' = 9.81825, tax' = 0.53625.
	// Gross rounds their sum once (10.3545 -> 10.35); the stored net and
	// tax round independently (9.82 + 0.54 = 10.36) and may differ from
	// gross by a cent.
	lines := []TaxableLine{
		{NetAmount: d("10.07"), TaxPct: d("5.5")},
	}
	totals := ComputeTotals(lines, d("2.5"))

	assert.True(t, totals.Net.Equal(d("9.82")), "net = %s", totals.Net)
	assert.True(t, totals.Tax.Equal(d("0.54")), "tax = %s", totals.Tax)
	assert.True(t, totals.Gross.Equal(d("10.35")), "gross = %s", totals.Gross)
}

func TestComputeTotals_PerLineTaxRoundingDiverges(t *testing.T) {
	// Each line's tax is rounded before summing: 0.055 * 20% = 0.011 -> 0.01
	// per line. Three lines give 0.03, while rounding the precise sum once
	// (0.033) would give also 0.03 -- use amounts where the orders differ:
	// tax per line 0.125 -> 0.13 (x3 = 0.39); precise sum 0.375 -> 0.38.
	lines := []TaxableLine{
		{NetAmount: d("0.625"), TaxPct: d("20")},
		{NetAmount: d("0.625"), TaxPct: d("20")},
		{NetAmount: d("0.625"), TaxPct: d("20")},
	}
	totals := ComputeTotals(lines, decimal.Zero)
	assert.True(t, totals.Tax.Equal(d("0.39")), "tax = %s", totals.Tax)
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil, decimal.Zero)
	assert.True(t, totals.Net.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Gross.IsZero())
}

func TestValidPercent(t *testing.T) {
	assert.True(t, ValidPercent(decimal.Zero))
	assert.True(t, ValidPercent(d("100")))
	assert.True(t, ValidPercent(d("12.34")))
	assert.False(t, ValidPercent(d("-0.01")))
	assert.False(t, ValidPercent(d("100.01")))
}
