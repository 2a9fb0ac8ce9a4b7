package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/ozledger/taxengine/internal/domain"
	"github.com/ozledger/taxengine/pkg/fy"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// CapAnalyzer orchestrates the carry-forward ledger and the tiered rate
// calculator to produce per-beneficiary concessional-cap results.
type CapAnalyzer struct {
	Ledger     *CarryForwardLedger
	Tiers      *TieredRateCalculator
	Aggregator *RiskScoreAggregator
	Classifier ContributionClassifier
	// MinConfidence is the acceptance floor for classifier results. It
	// applies to whichever ContributionClassifier is plugged in; results
	// below it fall back to the conservative default.
	MinConfidence decimal.Decimal
	Now           func() time.Time
}

// NewCapAnalyzer creates a cap analyzer with the standard collaborators and
// the system clock.
func NewCapAnalyzer() *CapAnalyzer {
	return &CapAnalyzer{
		Ledger:        NewCarryForwardLedger(),
		Tiers:         NewTieredRateCalculator(),
		Aggregator:    NewRiskScoreAggregator(),
		Classifier:    NewKeywordClassifier(),
		MinConfidence: DefaultClassifierConfig().MinConfidence,
		Now:           time.Now,
	}
}

// AnalyzeSuperannuationCaps is the package-level entry point of the cap
// analyzer.
func AnalyzeSuperannuationCaps(contributions []domain.Contribution, rates *domain.RateConfig) (*domain.CapAnalysis, error) {
	return NewCapAnalyzer().Analyze(contributions, rates)
}

// Analyze groups contributions by beneficiary and assesses each against the
// effective concessional cap for the period.
//
// Validation policy: contributions without a beneficiary id or with a
// negative amount are skipped individually with a surfaced reason. An empty
// batch is no activity, not an error.
func (ca *CapAnalyzer) Analyze(contributions []domain.Contribution, rates *domain.RateConfig) (*domain.CapAnalysis, error) {
	if rates == nil {
		return nil, fmt.Errorf("rate config is required")
	}
	currentPeriod, err := fy.Parse(rates.Period)
	if err != nil {
		return nil, fmt.Errorf("invalid rate config period: %w", err)
	}

	analysis := &domain.CapAnalysis{
		AsOf:          ca.Now().UTC(),
		Period:        rates.Period,
		TaxRateSource: rates.Source,
		Confidence:    rates.Confidence,
	}

	byBeneficiary := make(map[string][]domain.Contribution)
	for i, c := range contributions {
		switch {
		case c.BeneficiaryID == "":
			analysis.SkippedRecords = append(analysis.SkippedRecords, domain.SkippedRecord{
				Index: i, Reason: "contribution has no beneficiary id"})
		case c.Amount.LessThan(decimal.Zero):
			analysis.SkippedRecords = append(analysis.SkippedRecords, domain.SkippedRecord{
				Index: i, Key: c.BeneficiaryID, Reason: "contribution has a negative amount"})
		default:
			byBeneficiary[c.BeneficiaryID] = append(byBeneficiary[c.BeneficiaryID], c)
		}
	}

	ids := make([]string, 0, len(byBeneficiary))
	for id := range byBeneficiary {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var severities []domain.Severity
	for _, id := range ids {
		summary := ca.summarize(id, byBeneficiary[id], currentPeriod, rates)
		if summary.BreachesCap {
			analysis.BreachCount++
			analysis.TotalDivisionTax = analysis.TotalDivisionTax.Add(summary.DivisionTaxPayable)
			severities = append(severities, domain.SeverityHigh)
		} else if summary.ApproachingCap {
			severities = append(severities, domain.SeverityMedium)
		}
		analysis.Summaries = append(analysis.Summaries, summary)
	}

	analysis.OverallRiskLevel = ca.Aggregator.OverallLevel(severities)
	if analysis.BreachCount > 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			fmt.Sprintf("%d beneficiaries exceed the concessional cap; Division tax of %s is payable in total.",
				analysis.BreachCount, analysis.TotalDivisionTax.StringFixed(2)))
	}
	return analysis, nil
}

// summarize builds one beneficiary's cap summary for the period.
func (ca *CapAnalyzer) summarize(beneficiaryID string, contributions []domain.Contribution, currentPeriod fy.Year, rates *domain.RateConfig) domain.CapSummary {
	super := rates.Superannuation
	summary := domain.CapSummary{
		BeneficiaryID: beneficiaryID,
		Period:        currentPeriod.String(),
		ByType:        make(map[domain.ContributionType]decimal.Decimal),
	}

	baseCap, ok := rates.BaseCapFor(currentPeriod.String())
	if !ok {
		summary.Recommendations = append(summary.Recommendations,
			fmt.Sprintf("No concessional cap is configured for %s; the cap assessment could not be completed.", currentPeriod))
		return summary
	}
	summary.BaseCap = baseCap

	// Balance and history come from the records; first known value wins so a
	// batch with repeated statements stays deterministic.
	var balance decimal.NullDecimal
	history := map[string]decimal.Decimal{}
	for _, c := range contributions {
		if !balance.Valid && c.TotalBalance.Valid {
			balance = c.TotalBalance
		}
		for period, amount := range c.PriorYearContributions {
			if _, exists := history[period]; !exists {
				history[period] = amount
			}
		}
	}

	for _, c := range contributions {
		ctype := c.Type
		switch {
		case ctype == "":
			var confidence decimal.Decimal
			ctype, confidence = ca.Classifier.Classify(c.Description)
			if ctype == "" || confidence.LessThan(ca.MinConfidence) {
				// Conservative default: an unclassifiable contribution is
				// treated as concessional, the higher-liability reading.
				ctype = domain.ContributionSG
				summary.Recommendations = append(summary.Recommendations,
					fmt.Sprintf("A %s contribution of %s has no type and could not be classified; it has been counted as concessional. Confirm its category.",
						currentPeriod, c.Amount.StringFixed(2)))
			}
		case !ctype.Recognized():
			// Same conservative default: an unrecognized type never drops
			// out of the cap base, since that could mask a breach.
			ctype = domain.ContributionSG
			summary.Recommendations = append(summary.Recommendations,
				fmt.Sprintf("A %s contribution of %s has unrecognized type %q; it has been counted as concessional. Confirm its category.",
					currentPeriod, c.Amount.StringFixed(2), string(c.Type)))
		}
		if !ctype.Concessional() {
			continue
		}
		summary.ByType[ctype] = summary.ByType[ctype].Add(c.Amount)
		summary.TotalConcessional = summary.TotalConcessional.Add(c.Amount)
	}

	// Eligibility gate: the balance must be known and under the gate. An
	// unknown balance is ineligible and carries its own recommendation,
	// distinct from a balance at or over the gate.
	switch {
	case !balance.Valid:
		summary.Recommendations = append(summary.Recommendations,
			"Total superannuation balance was not supplied; carry-forward has been excluded. Provide the balance to access unused cap from prior years.")
	case balance.Decimal.LessThan(super.CarryForwardBalanceGate):
		summary.CarryForwardEligible = true
	}

	if summary.CarryForwardEligible {
		allowances, gaps := ca.Ledger.Allowances(currentPeriod, history, super)
		summary.Allowances = allowances
		summary.TotalCarryForward = ca.Ledger.TotalUnused(allowances)
		for _, gap := range gaps {
			summary.Recommendations = append(summary.Recommendations,
				fmt.Sprintf("Contribution history for %s is unavailable; no carry-forward was assumed for that year.", gap))
		}
	}

	summary.EffectiveCap = summary.BaseCap.Add(summary.TotalCarryForward)
	summary.BreachesCap = summary.TotalConcessional.GreaterThan(summary.EffectiveCap)
	summary.ExcessContributions = decimal.Max(decimal.Zero, summary.TotalConcessional.Sub(summary.EffectiveCap))
	summary.DivisionTaxPayable = ca.Tiers.ComputeFlatTax(summary.ExcessContributions, super.DivisionTaxRate)
	if summary.EffectiveCap.GreaterThan(decimal.Zero) {
		summary.CapUsagePercentage = summary.TotalConcessional.Div(summary.EffectiveCap).Mul(oneHundred).Round(2)
	}

	approachingFloor := super.ApproachingCapPercent
	if approachingFloor.IsZero() {
		approachingFloor = decimal.NewFromInt(80)
	}
	summary.ApproachingCap = !summary.BreachesCap && summary.CapUsagePercentage.GreaterThan(approachingFloor)

	if summary.BreachesCap {
		summary.Recommendations = append(summary.Recommendations,
			fmt.Sprintf("Concessional contributions of %s exceed the effective cap of %s; Division tax of %s applies to the excess.",
				summary.TotalConcessional.StringFixed(2), summary.EffectiveCap.StringFixed(2), summary.DivisionTaxPayable.StringFixed(2)))
	} else if summary.ApproachingCap {
		summary.Recommendations = append(summary.Recommendations,
			fmt.Sprintf("Concessional contributions are at %s%% of the effective cap; review salary-sacrifice arrangements before year end.",
				summary.CapUsagePercentage.StringFixed(2)))
	}
	return summary
}
