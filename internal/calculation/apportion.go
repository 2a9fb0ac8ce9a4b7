package calculation

import (
	"github.com/ozledger/taxengine/internal/domain"
	"github.com/shopspring/decimal"
)

// ThresholdApportioner splits each jurisdiction's statutory tax-free
// threshold across an entity operating in several jurisdictions, or across a
// declared payroll-tax group. Wage figures used for apportionment are deemed
// labour cost (gross wages plus contractor payments), matching the taxable
// base.
type ThresholdApportioner struct{}

// NewThresholdApportioner creates a new threshold apportioner.
func NewThresholdApportioner() *ThresholdApportioner {
	return &ThresholdApportioner{}
}

// Apportion returns the apportioned threshold per jurisdiction.
//
// A single-jurisdiction entity with no group membership receives the full
// statutory threshold. Otherwise each jurisdiction receives its statutory
// threshold scaled by wages(j)/denominator, where the denominator is the
// entity's own labour-cost total, or the group-wide wage total when the
// entity is a declared group member. The apportioned threshold never exceeds
// the statutory threshold.
func (ta *ThresholdApportioner) Apportion(wagesByJurisdiction map[string]decimal.Decimal, rates map[string]domain.JurisdictionRates, grouping *domain.GroupingContext) map[string]decimal.Decimal {
	allocated := make(map[string]decimal.Decimal, len(wagesByJurisdiction))

	grouped := grouping != nil && grouping.IsGroupMember
	if len(wagesByJurisdiction) == 1 && !grouped {
		for j := range wagesByJurisdiction {
			allocated[j] = rates[j].AnnualThreshold
		}
		return allocated
	}

	denominator := decimal.Zero
	for _, w := range wagesByJurisdiction {
		denominator = denominator.Add(w)
	}
	if grouped && grouping.TotalGroupWages.GreaterThan(decimal.Zero) {
		denominator = grouping.TotalGroupWages
	}

	for j, w := range wagesByJurisdiction {
		statutory := rates[j].AnnualThreshold
		if denominator.LessThanOrEqual(decimal.Zero) {
			allocated[j] = decimal.Zero
			continue
		}
		proportion := w.Div(denominator)
		if proportion.GreaterThan(decimal.NewFromInt(1)) {
			// A declared group total below the entity's own wages is
			// malformed input; the statutory threshold is the ceiling.
			proportion = decimal.NewFromInt(1)
		}
		allocated[j] = statutory.Mul(proportion).Round(2)
	}
	return allocated
}
