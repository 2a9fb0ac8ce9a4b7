package calculation

import (
	"github.com/ozledger/taxengine/internal/domain"
	"github.com/ozledger/taxengine/pkg/fy"
	"github.com/shopspring/decimal"
)

// carryForwardWindowYears is the number of prior financial years the
// carry-forward scheme looks back over.
const carryForwardWindowYears = 5

// CarryForwardLedger computes unused concessional-cap allowances over the
// bounded lookback window. It does not decide eligibility; the balance gate
// belongs to the cap analyzer.
type CarryForwardLedger struct{}

// NewCarryForwardLedger creates a new carry-forward ledger.
func NewCarryForwardLedger() *CarryForwardLedger {
	return &CarryForwardLedger{}
}

// Allowances returns one allowance per prior period with unused cap, walking
// the five financial years immediately before current, oldest first, and
// never before the scheme start. A prior period absent from the contribution
// history has an unknown contributed amount and contributes nothing; callers
// surface that gap rather than assuming a zero contribution.
func (cl *CarryForwardLedger) Allowances(current fy.Year, contributed map[string]decimal.Decimal, super domain.SuperRates) ([]domain.CarryForwardAllowance, []string) {
	schemeStart, err := fy.Parse(super.SchemeStartPeriod)
	if err != nil {
		return nil, []string{"Carry-forward scheme start period is not configured; no carry-forward has been applied."}
	}

	var allowances []domain.CarryForwardAllowance
	var gaps []string
	for n := carryForwardWindowYears; n >= 1; n-- {
		p := current.Prev(n)
		if p.Before(schemeStart) {
			continue
		}
		period := p.String()
		amount, known := contributed[period]
		if !known {
			gaps = append(gaps, period)
			continue
		}
		periodCap, ok := super.BaseCaps[period]
		if !ok {
			gaps = append(gaps, period)
			continue
		}
		unused := periodCap.Sub(amount)
		if unused.LessThanOrEqual(decimal.Zero) {
			continue
		}
		allowances = append(allowances, domain.CarryForwardAllowance{
			FromPeriod:     period,
			UnusedAmount:   unused,
			IsWithinWindow: true,
		})
	}
	return allowances, gaps
}

// TotalUnused sums the allowances.
func (cl *CarryForwardLedger) TotalUnused(allowances []domain.CarryForwardAllowance) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allowances {
		total = total.Add(a.UnusedAmount)
	}
	return total
}
