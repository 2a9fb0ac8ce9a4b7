package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel is the three-step classification used for composition risk
// (contractor deeming) as distinct from per-flag Severity.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// SkippedRecord reports one input record rejected during validation. Skipped
// records are excluded from every aggregate; the reason is always surfaced.
type SkippedRecord struct {
	Index  int    `json:"index"`
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason"`
}

// PayrollTaxResult is the per-jurisdiction payroll-tax outcome.
type PayrollTaxResult struct {
	Jurisdiction       string          `json:"jurisdiction"`
	TotalWages         decimal.Decimal `json:"totalWages"`
	ThresholdDeduction decimal.Decimal `json:"thresholdDeduction"`
	TaxableWages       decimal.Decimal `json:"taxableWages"`
	TaxPayable         decimal.Decimal `json:"taxPayable"`
	EffectiveRate      decimal.Decimal `json:"effectiveRate"`
	ContractorWarning  string          `json:"contractorWarning,omitempty"`
}

// PayrollTaxAnalysis is the single structured result of a payroll-tax run.
type PayrollTaxAnalysis struct {
	AsOf                 time.Time          `json:"asOf"`
	Period               string             `json:"period"`
	Results              []PayrollTaxResult `json:"results"`
	TotalTaxPayable      decimal.Decimal    `json:"totalTaxPayable"`
	ContractorProportion decimal.Decimal    `json:"contractorProportion"`
	ContractorRisk       RiskLevel          `json:"contractorRisk"`
	OverallRiskLevel     Severity           `json:"overallRiskLevel"`
	Warnings             []string           `json:"warnings,omitempty"`
	Recommendations      []string           `json:"recommendations,omitempty"`
	SkippedRecords       []SkippedRecord    `json:"skippedRecords,omitempty"`
	TaxRateSource        string             `json:"taxRateSource"`
	Confidence           string             `json:"confidence"`
}

// CarryForwardAllowance is one prior period's unused concessional cap.
type CarryForwardAllowance struct {
	FromPeriod     string          `json:"fromPeriod"`
	UnusedAmount   decimal.Decimal `json:"unusedAmount"`
	IsWithinWindow bool            `json:"isWithinWindow"`
}

// CapSummary is the per-beneficiary concessional-cap outcome.
type CapSummary struct {
	BeneficiaryID        string                              `json:"beneficiaryId"`
	Period               string                              `json:"period"`
	TotalConcessional    decimal.Decimal                     `json:"totalConcessional"`
	ByType               map[ContributionType]decimal.Decimal `json:"byType"`
	BaseCap              decimal.Decimal                     `json:"baseCap"`
	CarryForwardEligible bool                                `json:"carryForwardEligible"`
	Allowances           []CarryForwardAllowance             `json:"allowances,omitempty"`
	TotalCarryForward    decimal.Decimal                     `json:"totalCarryForward"`
	EffectiveCap         decimal.Decimal                     `json:"effectiveCap"`
	BreachesCap          bool                                `json:"breachesCap"`
	ApproachingCap       bool                                `json:"approachingCap"`
	ExcessContributions  decimal.Decimal                     `json:"excessContributions"`
	DivisionTaxPayable   decimal.Decimal                     `json:"divisionTaxPayable"`
	CapUsagePercentage   decimal.Decimal                     `json:"capUsagePercentage"`
	Recommendations      []string                            `json:"recommendations,omitempty"`
}

// CapAnalysis is the single structured result of a concessional-cap run.
type CapAnalysis struct {
	AsOf             time.Time       `json:"asOf"`
	Period           string          `json:"period"`
	Summaries        []CapSummary    `json:"summaries"`
	BreachCount      int             `json:"breachCount"`
	TotalDivisionTax decimal.Decimal `json:"totalDivisionTax"`
	OverallRiskLevel Severity        `json:"overallRiskLevel"`
	Recommendations  []string        `json:"recommendations,omitempty"`
	SkippedRecords   []SkippedRecord `json:"skippedRecords,omitempty"`
	TaxRateSource    string          `json:"taxRateSource"`
	Confidence       string          `json:"confidence"`
}

// FlagType identifies one trust-distribution compliance flag rule.
type FlagType string

const (
	FlagReimbursementAgreement  FlagType = "reimbursement_agreement"
	FlagNonResidentDistribution FlagType = "non_resident_distribution"
	FlagMinorDistribution       FlagType = "minor_distribution"
	FlagExcessiveUPE            FlagType = "excessive_upe"
)

// ComplianceFlag is one compliance finding on a distribution. Severity starts
// at the flag type's base severity and may be downgraded at most once by the
// family-dealing exclusion, never upgraded.
type ComplianceFlag struct {
	FlagType          FlagType        `json:"flagType"`
	Severity          Severity        `json:"severity"`
	Amount            decimal.Decimal `json:"amount"`
	BeneficiaryID     string          `json:"beneficiaryId"`
	Recommendation    string          `json:"recommendation"`
	FamilyDealingNote string          `json:"familyDealingNote,omitempty"`
}

// BeneficiaryRiskProfile aggregates one beneficiary's risk position within a
// trust.
type BeneficiaryRiskProfile struct {
	BeneficiaryID          string          `json:"beneficiaryId"`
	RiskScore              decimal.Decimal `json:"riskScore"`
	RiskFactors            []string        `json:"riskFactors,omitempty"`
	FamilyDealingExclusion string          `json:"familyDealingExclusion,omitempty"`
}

// DistributionAnalysis is the per-trust result of a distribution-compliance run.
type DistributionAnalysis struct {
	AsOf                       time.Time                `json:"asOf"`
	TrustID                    string                   `json:"trustId"`
	Period                     string                   `json:"period"`
	TotalDistributed           decimal.Decimal          `json:"totalDistributed"`
	Flags                      []ComplianceFlag         `json:"flags,omitempty"`
	BeneficiaryProfiles        []BeneficiaryRiskProfile `json:"beneficiaryProfiles,omitempty"`
	OverallRiskLevel           Severity                 `json:"overallRiskLevel"`
	ProfessionalReviewRequired bool                     `json:"professionalReviewRequired"`
	ComplianceSummary          string                   `json:"complianceSummary"`
	Recommendations            []string                 `json:"recommendations,omitempty"`
	SkippedRecords             []SkippedRecord          `json:"skippedRecords,omitempty"`
	TaxRateSource              string                   `json:"taxRateSource"`
	Confidence                 string                   `json:"confidence"`
}
