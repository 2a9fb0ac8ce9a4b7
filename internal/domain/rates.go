package domain

import (
	"github.com/shopspring/decimal"
)

// Rate provenance markers carried on every analysis result so downstream
// reports can tell a live table from the compiled-in fallback.
const (
	RateSourceLive    = "live"
	ConfidenceHigh    = "high"
	ConfidenceReduced = "reduced"
)

// JurisdictionRates holds one jurisdiction's payroll-tax parameters for the
// period. HigherRate and HigherRateThreshold are optional; a zero HigherRate
// means the jurisdiction has a single flat marginal rate above the threshold.
type JurisdictionRates struct {
	AnnualThreshold     decimal.Decimal `yaml:"annual_threshold" json:"annualThreshold"`
	Rate                decimal.Decimal `yaml:"rate" json:"rate"`
	HigherRate          decimal.Decimal `yaml:"higher_rate,omitempty" json:"higherRate,omitempty"`
	HigherRateThreshold decimal.Decimal `yaml:"higher_rate_threshold,omitempty" json:"higherRateThreshold,omitempty"`
}

// HasSecondTier reports whether a second marginal tier is configured.
func (j JurisdictionRates) HasSecondTier() bool {
	return j.HigherRate.GreaterThan(decimal.Zero) && j.HigherRateThreshold.GreaterThan(decimal.Zero)
}

// SuperRates holds the concessional-cap scheme constants.
type SuperRates struct {
	// BaseCaps maps financial-year period ("2024-25") to that year's
	// concessional cap.
	BaseCaps map[string]decimal.Decimal `yaml:"base_caps" json:"baseCaps"`
	// DivisionTaxRate applies to contributions above the effective cap.
	DivisionTaxRate decimal.Decimal `yaml:"division_tax_rate" json:"divisionTaxRate"`
	// CarryForwardBalanceGate is the total-balance ceiling for carry-forward
	// eligibility.
	CarryForwardBalanceGate decimal.Decimal `yaml:"carry_forward_balance_gate" json:"carryForwardBalanceGate"`
	// SchemeStartPeriod is the first financial year the carry-forward scheme
	// recognizes ("2018-19").
	SchemeStartPeriod string `yaml:"scheme_start_period" json:"schemeStartPeriod"`
	// ApproachingCapPercent is the usage percentage above which an
	// approaching-cap notice is raised.
	ApproachingCapPercent decimal.Decimal `yaml:"approaching_cap_percent" json:"approachingCapPercent"`
}

// TrustRates holds the trust-distribution compliance constants. The trustee
// assessment rate on flagged reimbursement arrangements is the top marginal
// rate plus the Medicare levy; reports state both components.
type TrustRates struct {
	TopMarginalRate  decimal.Decimal `yaml:"top_marginal_rate" json:"topMarginalRate"`
	MedicareLevyRate decimal.Decimal `yaml:"medicare_levy_rate" json:"medicareLevyRate"`
	// ExcessiveUPEAgeYears is the UPE age beyond which an unpaid entitlement
	// is flagged.
	ExcessiveUPEAgeYears int `yaml:"excessive_upe_age_years" json:"excessiveUpeAgeYears"`
}

// CombinedTrusteeRate is the statutory trustee assessment rate: top marginal
// rate plus Medicare levy.
func (t TrustRates) CombinedTrusteeRate() decimal.Decimal {
	return t.TopMarginalRate.Add(t.MedicareLevyRate)
}

// RateConfig is the full injected rate table for one reporting period. It is
// supplied by the caller on every invocation and never mutated by the
// engines; there is no ambient default read anywhere in the calculation
// packages.
type RateConfig struct {
	Period         string                       `yaml:"period" json:"period"`
	Jurisdictions  map[string]JurisdictionRates `yaml:"jurisdictions" json:"jurisdictions"`
	Superannuation SuperRates                   `yaml:"superannuation" json:"superannuation"`
	Trust          TrustRates                   `yaml:"trust" json:"trust"`

	// Source and Confidence record where the table came from. A live fetch
	// yields RateSourceLive/ConfidenceHigh; the static fallback carries its
	// own version string and ConfidenceReduced.
	Source     string `yaml:"source" json:"source"`
	Confidence string `yaml:"confidence" json:"confidence"`
}

// JurisdictionFor looks up rates for a jurisdiction code.
func (rc *RateConfig) JurisdictionFor(code string) (JurisdictionRates, bool) {
	j, ok := rc.Jurisdictions[code]
	return j, ok
}

// BaseCapFor returns the concessional cap for a period, if configured.
func (rc *RateConfig) BaseCapFor(period string) (decimal.Decimal, bool) {
	cap, ok := rc.Superannuation.BaseCaps[period]
	return cap, ok
}
