package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_NoDiscount(t *testing.T) {
	// cart [{price: 1.0, qty: 2}] at 6% tax
	lines := []decimal.Decimal{decimal.NewFromFloat(2.0)}

	totals := ComputeTotals(lines, decimal.Zero, decimal.NewFromFloat(0.06))

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromFloat(2.00)), "subtotal: %v", totals.Subtotal)
	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.Tax.Equal(decimal.NewFromFloat(0.12)), "tax: %v", totals.Tax)
	assert.True(t, totals.Total.Equal(decimal.NewFromFloat(2.12)), "total: %v", totals.Total)
}

func TestComputeTotals_WithCouponDiscount(t *testing.T) {
	// same cart with a 10% coupon
	lines := []decimal.Decimal{decimal.NewFromFloat(2.0)}

	totals := ComputeTotals(lines, decimal.NewFromFloat(0.10), decimal.NewFromFloat(0.06))

	assert.True(t, totals.DiscountAmount.Equal(decimal.NewFromFloat(0.20)), "discount: %v", totals.DiscountAmount)
	assert.True(t, totals.TaxableAmount.Equal(decimal.NewFromFloat(1.80)), "taxable: %v", totals.TaxableAmount)
	assert.True(t, totals.Tax.Equal(decimal.NewFromFloat(0.108)), "tax: %v", totals.Tax)
	assert.True(t, totals.Total.Equal(decimal.NewFromFloat(1.908)), "total: %v", totals.Total)
}

func TestComputeTotals_MultipleLines(t *testing.T) {
	lines := []decimal.Decimal{
		decimal.NewFromFloat(10.50),
		decimal.NewFromFloat(4.25),
		decimal.NewFromFloat(0.25),
	}

	totals := ComputeTotals(lines, decimal.Zero, decimal.NewFromFloat(0.06))

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromFloat(15.00)), "subtotal: %v", totals.Subtotal)
	assert.True(t, totals.Total.Equal(decimal.NewFromFloat(15.90)), "total: %v", totals.Total)
}

func TestComputeTotals_EmptyLines(t *testing.T) {
	totals := ComputeTotals(nil, decimal.NewFromFloat(0.10), decimal.NewFromFloat(0.06))

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestComputeReturnTotals_NeverTaxed(t *testing.T) {
	lines := []decimal.Decimal{decimal.NewFromFloat(15.0)}

	totals := ComputeReturnTotals(lines)

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromFloat(15.0)))
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.Total.Equal(decimal.NewFromFloat(15.0)))
}
