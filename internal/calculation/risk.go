package calculation

import (
	"github.com/ozledger/taxengine/internal/domain"
	"github.com/shopspring/decimal"
)

// RiskFactor is one weighted contributor to a beneficiary or entity risk
// score.
type RiskFactor struct {
	Name   string
	Weight decimal.Decimal
}

// RiskScoreAggregator is the shared severity-to-level mapping used by all
// three engines.
type RiskScoreAggregator struct{}

// NewRiskScoreAggregator creates a new risk score aggregator.
func NewRiskScoreAggregator() *RiskScoreAggregator {
	return &RiskScoreAggregator{}
}

// OverallLevel returns the highest severity among the given flags/factors,
// or low when there are none.
func (ra *RiskScoreAggregator) OverallLevel(severities []domain.Severity) domain.Severity {
	return domain.MaxSeverity(severities...)
}

// Score sums factor weights, applying reduction (a non-negative amount to
// subtract) at most once and flooring the result at zero.
func (ra *RiskScoreAggregator) Score(factors []RiskFactor, reduction decimal.Decimal) decimal.Decimal {
	score := decimal.Zero
	for _, f := range factors {
		score = score.Add(f.Weight)
	}
	score = score.Sub(reduction)
	if score.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return score
}

// ReviewRequired reports whether a level warrants professional review.
func (ra *RiskScoreAggregator) ReviewRequired(level domain.Severity) bool {
	return level.AtLeast(domain.SeverityHigh)
}

// riskLevelSeverity maps the three-step composition risk onto the shared
// severity scale for overall-level aggregation.
func riskLevelSeverity(level domain.RiskLevel) domain.Severity {
	switch level {
	case domain.RiskHigh:
		return domain.SeverityHigh
	case domain.RiskMedium:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}
