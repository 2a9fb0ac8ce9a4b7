package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/ozledger/taxengine/internal/domain"
	"github.com/shopspring/decimal"
)

// Risk-score weights for beneficiary risk factors.
var (
	nonResidentWeight     = decimal.NewFromInt(40)
	minorWeight           = decimal.NewFromInt(35)
	familyDealingMaxCut   = decimal.NewFromInt(40)
	familyDealingCitation = "Distribution confined to genuine family dealing; the ordinary family or commercial dealing exclusion applies."
)

// FamilyDealingExclusionPolicy is the pure, apply-at-most-once severity
// downgrade for distributions confined to genuine family dealings. It never
// upgrades a flag and never touches reimbursement or UPE flags: a true
// reimbursement pattern overrides the exclusion regardless of family
// relationship.
type FamilyDealingExclusionPolicy struct{}

// Applies reports whether the exclusion covers the distribution: related
// party and family member both confirmed, and a reimbursement pattern
// confirmed absent. Unknown states never earn the concession.
func (FamilyDealingExclusionPolicy) Applies(d domain.Distribution) bool {
	return d.IsRelatedParty.True() && d.IsFamilyMember.True() && d.HasReimbursementPattern == domain.KnownFalse
}

// Downgrade returns the flag with the family-dealing downgrade applied, or
// the flag unchanged when the policy does not reach its type. Non-resident
// flags step high to medium; minor flags step high to low.
func (p FamilyDealingExclusionPolicy) Downgrade(flag domain.ComplianceFlag) domain.ComplianceFlag {
	switch flag.FlagType {
	case domain.FlagNonResidentDistribution:
		flag.Severity = domain.SeverityMedium
	case domain.FlagMinorDistribution:
		flag.Severity = domain.SeverityLow
	default:
		return flag
	}
	flag.FamilyDealingNote = familyDealingCitation
	return flag
}

// DistributionFlagEngine classifies trust distributions into compliance
// flags and aggregates per-beneficiary risk and a per-trust overall level.
type DistributionFlagEngine struct {
	Policy     FamilyDealingExclusionPolicy
	Aggregator *RiskScoreAggregator
	Now        func() time.Time
}

// NewDistributionFlagEngine creates a distribution flag engine with the
// system clock.
func NewDistributionFlagEngine() *DistributionFlagEngine {
	return &DistributionFlagEngine{
		Aggregator: NewRiskScoreAggregator(),
		Now:        time.Now,
	}
}

// AnalyzeTrustDistributions is the package-level entry point of the
// distribution engine. One analysis is returned per distinct trust id,
// ordered by trust id.
func AnalyzeTrustDistributions(distributions []domain.Distribution, rates *domain.RateConfig) ([]domain.DistributionAnalysis, error) {
	return NewDistributionFlagEngine().Analyze(distributions, rates)
}

// Analyze runs the engine over a batch of distribution records.
//
// Validation policy: distributions without a trust id or beneficiary id, or
// with a negative amount, are skipped individually with a surfaced reason.
// Skips with no attributable trust are reported exactly once, on the first
// returned analysis; when nothing else survives they come back on a single
// empty analysis.
func (e *DistributionFlagEngine) Analyze(distributions []domain.Distribution, rates *domain.RateConfig) ([]domain.DistributionAnalysis, error) {
	if rates == nil {
		return nil, fmt.Errorf("rate config is required")
	}

	byTrust := make(map[string][]domain.Distribution)
	var unattributed []domain.SkippedRecord
	skippedByTrust := make(map[string][]domain.SkippedRecord)
	for i, d := range distributions {
		switch {
		case d.TrustID == "":
			unattributed = append(unattributed, domain.SkippedRecord{
				Index: i, Reason: "distribution has no trust id"})
		case d.BeneficiaryID == "":
			skippedByTrust[d.TrustID] = append(skippedByTrust[d.TrustID], domain.SkippedRecord{
				Index: i, Key: d.TrustID, Reason: "distribution has no beneficiary id"})
		case d.Amount.LessThan(decimal.Zero):
			skippedByTrust[d.TrustID] = append(skippedByTrust[d.TrustID], domain.SkippedRecord{
				Index: i, Key: d.TrustID, Reason: "distribution has a negative amount"})
		default:
			byTrust[d.TrustID] = append(byTrust[d.TrustID], d)
		}
	}
	for trustID := range skippedByTrust {
		if _, ok := byTrust[trustID]; !ok {
			byTrust[trustID] = nil
		}
	}

	trustIDs := make([]string, 0, len(byTrust))
	for id := range byTrust {
		trustIDs = append(trustIDs, id)
	}
	sort.Strings(trustIDs)

	asOf := e.Now().UTC()
	analyses := make([]domain.DistributionAnalysis, 0, len(trustIDs))
	for i, trustID := range trustIDs {
		analysis := e.analyzeTrust(trustID, byTrust[trustID], rates, asOf)
		analysis.SkippedRecords = append(analysis.SkippedRecords, skippedByTrust[trustID]...)
		if i == 0 {
			analysis.SkippedRecords = append(analysis.SkippedRecords, unattributed...)
		}
		analyses = append(analyses, analysis)
	}
	if len(analyses) == 0 && len(unattributed) > 0 {
		analyses = append(analyses, domain.DistributionAnalysis{
			AsOf:             asOf,
			Period:           rates.Period,
			OverallRiskLevel: domain.SeverityLow,
			SkippedRecords:   unattributed,
			TaxRateSource:    rates.Source,
			Confidence:       rates.Confidence,
		})
	}
	return analyses, nil
}

// analyzeTrust produces one trust's analysis.
func (e *DistributionFlagEngine) analyzeTrust(trustID string, distributions []domain.Distribution, rates *domain.RateConfig, asOf time.Time) domain.DistributionAnalysis {
	analysis := domain.DistributionAnalysis{
		AsOf:          asOf,
		TrustID:       trustID,
		Period:        rates.Period,
		TaxRateSource: rates.Source,
		Confidence:    rates.Confidence,
	}

	profiles := make(map[string]*domain.BeneficiaryRiskProfile)
	profileFor := func(id string) *domain.BeneficiaryRiskProfile {
		if p, ok := profiles[id]; ok {
			return p
		}
		p := &domain.BeneficiaryRiskProfile{BeneficiaryID: id, RiskScore: decimal.Zero}
		profiles[id] = p
		return p
	}

	factorsFor := make(map[string][]RiskFactor)
	exclusionFor := make(map[string]bool)

	var severities []domain.Severity
	for _, d := range distributions {
		analysis.TotalDistributed = analysis.TotalDistributed.Add(d.Amount)
		flags := e.classify(d, rates.Trust)
		profile := profileFor(d.BeneficiaryID)

		var factors []RiskFactor
		if d.IsNonResident.True() {
			factors = append(factors, RiskFactor{Name: "non_resident_beneficiary", Weight: nonResidentWeight})
		}
		if d.IsMinor.True() {
			factors = append(factors, RiskFactor{Name: "minor_beneficiary", Weight: minorWeight})
		}
		if len(factors) > 0 && e.Policy.Applies(d) {
			exclusionFor[d.BeneficiaryID] = true
			profile.FamilyDealingExclusion = familyDealingCitation
		}
		factorsFor[d.BeneficiaryID] = append(factorsFor[d.BeneficiaryID], factors...)
		for _, f := range factors {
			profile.RiskFactors = append(profile.RiskFactors, f.Name)
		}

		if !d.HasReimbursementPattern.Known() && (d.IsNonResident.True() || d.IsMinor.True()) && d.IsRelatedParty.True() && d.IsFamilyMember.True() {
			analysis.Recommendations = append(analysis.Recommendations,
				fmt.Sprintf("Reimbursement status for %s's distribution was not supplied; the family-dealing exclusion was withheld. Confirm no reimbursement arrangement exists.", d.BeneficiaryID))
		}

		for _, flag := range flags {
			severities = append(severities, flag.Severity)
			analysis.Flags = append(analysis.Flags, flag)
		}
	}

	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		// Factors accumulate across the beneficiary's distributions; the
		// family-dealing reduction is a single capped cut per beneficiary,
		// never once per qualifying distribution.
		reduction := decimal.Zero
		if exclusionFor[id] {
			reduction = familyDealingMaxCut
		}
		profiles[id].RiskScore = e.Aggregator.Score(factorsFor[id], reduction)
		analysis.BeneficiaryProfiles = append(analysis.BeneficiaryProfiles, *profiles[id])
	}

	analysis.OverallRiskLevel = e.Aggregator.OverallLevel(severities)
	analysis.ProfessionalReviewRequired = e.Aggregator.ReviewRequired(analysis.OverallRiskLevel)
	analysis.ComplianceSummary = e.summarize(trustID, analysis.OverallRiskLevel, len(analysis.Flags), rates.Trust)
	return analysis
}

// classify applies the per-distribution flag rules; a single distribution
// may emit several flags. The family-dealing downgrade is applied exactly
// once, after base severity assignment.
func (e *DistributionFlagEngine) classify(d domain.Distribution, trust domain.TrustRates) []domain.ComplianceFlag {
	var flags []domain.ComplianceFlag

	if d.HasReimbursementPattern.True() {
		flags = append(flags, domain.ComplianceFlag{
			FlagType:       domain.FlagReimbursementAgreement,
			Severity:       domain.SeverityCritical,
			Amount:         d.Amount,
			BeneficiaryID:  d.BeneficiaryID,
			Recommendation: reimbursementRecommendation(trust),
		})
	}
	if d.IsNonResident.True() {
		flags = append(flags, domain.ComplianceFlag{
			FlagType:       domain.FlagNonResidentDistribution,
			Severity:       domain.SeverityHigh,
			Amount:         d.Amount,
			BeneficiaryID:  d.BeneficiaryID,
			Recommendation: "Confirm trustee withholding obligations for the non-resident beneficiary before lodgment.",
		})
	}
	if d.IsMinor.True() {
		flags = append(flags, domain.ComplianceFlag{
			FlagType:       domain.FlagMinorDistribution,
			Severity:       domain.SeverityHigh,
			Amount:         d.Amount,
			BeneficiaryID:  d.BeneficiaryID,
			Recommendation: "Distributions to minors attract penalty rates on unearned income; confirm the excepted-person status.",
		})
	}
	upeAge := trust.ExcessiveUPEAgeYears
	if upeAge == 0 {
		upeAge = 2
	}
	if d.Type == domain.DistributionUPE && d.UPEAgeYears > upeAge {
		flags = append(flags, domain.ComplianceFlag{
			FlagType:       domain.FlagExcessiveUPE,
			Severity:       domain.SeverityCritical,
			Amount:         upeAmount(d),
			BeneficiaryID:  d.BeneficiaryID,
			Recommendation: fmt.Sprintf("An unpaid present entitlement older than %d years may be treated as a loan; place it on complying terms or pay it out.", upeAge),
		})
	}

	if e.Policy.Applies(d) {
		for i, flag := range flags {
			flags[i] = e.Policy.Downgrade(flag)
		}
	}
	return flags
}

// upeAmount prefers the outstanding UPE balance over the distribution amount
// when it is known.
func upeAmount(d domain.Distribution) decimal.Decimal {
	if d.UPEBalance.Valid {
		return d.UPEBalance.Decimal
	}
	return d.Amount
}

// reimbursementRecommendation states the combined statutory trustee rate and
// both of its components so the total can be verified from the text.
func reimbursementRecommendation(trust domain.TrustRates) string {
	return fmt.Sprintf(
		"A reimbursement agreement exposes the trustee to assessment at %s%% (the %s%% top marginal rate plus the %s%% Medicare levy) on the distribution; obtain specialist advice before lodgment.",
		ratePercent(trust.CombinedTrusteeRate()), ratePercent(trust.TopMarginalRate), ratePercent(trust.MedicareLevyRate))
}

// summarize renders the per-trust compliance summary. Critical trusts must
// surface the combined trustee rate and its components.
func (e *DistributionFlagEngine) summarize(trustID string, level domain.Severity, flagCount int, trust domain.TrustRates) string {
	if flagCount == 0 {
		return fmt.Sprintf("%s: no compliance flags raised; overall risk low.", trustID)
	}
	summary := fmt.Sprintf("%s: %d compliance flags raised; overall risk %s.", trustID, flagCount, level)
	if level == domain.SeverityCritical {
		summary += fmt.Sprintf(" Critical findings may be assessed to the trustee at %s%% (%s%% top marginal rate plus %s%% Medicare levy).",
			ratePercent(trust.CombinedTrusteeRate()), ratePercent(trust.TopMarginalRate), ratePercent(trust.MedicareLevyRate))
	}
	return summary
}

// ratePercent renders a decimal rate as a percentage with no trailing zeros.
func ratePercent(rate decimal.Decimal) string {
	return rate.Mul(oneHundred).String()
}
