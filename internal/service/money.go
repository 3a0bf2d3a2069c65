package service

import "github.com/shopspring/decimal"

// Totals is the result of the money/tax calculation for one transaction.
// Values are kept at full decimal precision; rounding happens only at
// presentation time so repeated computation never compounds rounding error.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

// ComputeTotals calculates transaction totals from line subtotals, a discount
// rate (zero for none) and a tax rate. Pure and deterministic.
func ComputeTotals(lineSubtotals []decimal.Decimal, discountRate, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, s := range lineSubtotals {
		subtotal = subtotal.Add(s)
	}

	discountAmount := subtotal.Mul(discountRate)
	taxableAmount := subtotal.Sub(discountAmount)
	tax := taxableAmount.Mul(taxRate)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxableAmount,
		Tax:            tax,
		Total:          taxableAmount.Add(tax),
	}
}

// ComputeReturnTotals calculates totals for a return transaction. Returns are
// never taxed, so the tax rate is forced to zero regardless of store policy.
func ComputeReturnTotals(lineSubtotals []decimal.Decimal) Totals {
	return ComputeTotals(lineSubtotals, decimal.Zero, decimal.Zero)
}
