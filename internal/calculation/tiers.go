package calculation

import (
	"github.com/ozledger/taxengine/internal/domain"
	"github.com/shopspring/decimal"
)

// TieredRateCalculator computes tax on a taxable amount under a one- or
// two-tier marginal rate structure. Rounding to cents happens exactly once,
// at the final tax amount, so the split terms never compound rounding error.
type TieredRateCalculator struct{}

// NewTieredRateCalculator creates a new tiered rate calculator.
func NewTieredRateCalculator() *TieredRateCalculator {
	return &TieredRateCalculator{}
}

// ComputeTax calculates tax on taxableAmount. appliedDeduction is the
// threshold deduction already taken out of the taxable base; the second-tier
// boundary is measured against gross amounts, so the tier-1 portion is capped
// at HigherRateThreshold less that deduction.
//
// A non-positive taxable amount yields zero tax.
func (tc *TieredRateCalculator) ComputeTax(taxableAmount decimal.Decimal, rates domain.JurisdictionRates, appliedDeduction decimal.Decimal) decimal.Decimal {
	if taxableAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	if !rates.HasSecondTier() {
		return taxableAmount.Mul(rates.Rate).Round(2)
	}

	tier1Cap := rates.HigherRateThreshold.Sub(appliedDeduction)
	if taxableAmount.LessThanOrEqual(tier1Cap) {
		return taxableAmount.Mul(rates.Rate).Round(2)
	}

	tier1Portion := tier1Cap
	if tier1Portion.LessThan(decimal.Zero) {
		tier1Portion = decimal.Zero
	}
	tier2Portion := taxableAmount.Sub(tier1Portion)

	tax := tier1Portion.Mul(rates.Rate).Add(tier2Portion.Mul(rates.HigherRate))
	return tax.Round(2)
}

// ComputeFlatTax applies a single rate, rounded to cents. Used for the
// Division tax on excess contributions.
func (tc *TieredRateCalculator) ComputeFlatTax(amount, rate decimal.Decimal) decimal.Decimal {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return amount.Mul(rate).Round(2)
}
