package domain

import (
	"github.com/shopspring/decimal"
)

// WageRecord is one jurisdiction's wage position for an entity over the
// reporting period. Contractor payments are carried separately because
// contractor deeming treats them as wages for the taxable base while the
// deeming-assessment status drives its own warning.
type WageRecord struct {
	Jurisdiction              string          `yaml:"jurisdiction" json:"jurisdiction"`
	GrossWages                decimal.Decimal `yaml:"gross_wages" json:"grossWages"`
	ContractorPayments        decimal.Decimal `yaml:"contractor_payments" json:"contractorPayments"`
	ContractorDeemingAssessed TriState        `yaml:"contractor_deeming_assessed" json:"contractorDeemingAssessed"`
	EmployeeCount             int             `yaml:"employee_count" json:"employeeCount"`
}

// LabourCost is the deemed taxable wage base: gross wages plus contractor payments.
func (w WageRecord) LabourCost() decimal.Decimal {
	return w.GrossWages.Add(w.ContractorPayments)
}

// GroupingContext describes a declared payroll-tax group. When present and
// IsGroupMember is true, threshold apportionment uses the group-wide wage
// total as the denominator.
type GroupingContext struct {
	IsGroupMember   bool            `yaml:"is_group_member" json:"isGroupMember"`
	TotalGroupWages decimal.Decimal `yaml:"total_group_wages" json:"totalGroupWages"`
	EntityCount     int             `yaml:"entity_count" json:"entityCount"`
	EntityNames     []string        `yaml:"entity_names" json:"entityNames"`
}

// ContributionType classifies a superannuation contribution. The three
// concessional types count toward the concessional cap; anything else is
// excluded from every cap sum.
type ContributionType string

const (
	ContributionSG                 ContributionType = "SG"
	ContributionSalarySacrifice    ContributionType = "salary_sacrifice"
	ContributionEmployerAdditional ContributionType = "employer_additional"
	ContributionNonConcessional    ContributionType = "non_concessional"
)

// Concessional reports whether the type counts toward the concessional cap.
func (t ContributionType) Concessional() bool {
	switch t {
	case ContributionSG, ContributionSalarySacrifice, ContributionEmployerAdditional:
		return true
	}
	return false
}

// Recognized reports whether the type is one of the defined categories. An
// unrecognized type must never be treated as non-concessional: that would
// drop it from the cap base and lower the assessed liability.
func (t ContributionType) Recognized() bool {
	return t.Concessional() || t == ContributionNonConcessional
}

// Contribution is one superannuation contribution record. TotalBalance uses
// NullDecimal because an unknown total superannuation balance gates
// carry-forward eligibility differently from a balance over the gate.
type Contribution struct {
	BeneficiaryID          string                     `yaml:"beneficiary_id" json:"beneficiaryId"`
	Amount                 decimal.Decimal            `yaml:"amount" json:"amount"`
	Type                   ContributionType           `yaml:"type" json:"type"`
	Description            string                     `yaml:"description,omitempty" json:"description,omitempty"`
	Period                 string                     `yaml:"period" json:"period"`
	TotalBalance           decimal.NullDecimal        `yaml:"total_balance" json:"totalBalance"`
	PriorYearContributions map[string]decimal.Decimal `yaml:"prior_year_contributions" json:"priorYearContributions"`
}

// DistributionType distinguishes cash distributions from unpaid present
// entitlements.
type DistributionType string

const (
	DistributionCash DistributionType = "cash"
	DistributionUPE  DistributionType = "upe"
)

// Distribution is one trust distribution record.
type Distribution struct {
	TrustID                 string              `yaml:"trust_id" json:"trustId"`
	BeneficiaryID           string              `yaml:"beneficiary_id" json:"beneficiaryId"`
	Amount                  decimal.Decimal     `yaml:"amount" json:"amount"`
	Type                    DistributionType    `yaml:"type" json:"type"`
	IsNonResident           TriState            `yaml:"is_non_resident" json:"isNonResident"`
	IsMinor                 TriState            `yaml:"is_minor" json:"isMinor"`
	IsRelatedParty          TriState            `yaml:"is_related_party" json:"isRelatedParty"`
	IsFamilyMember          TriState            `yaml:"is_family_member" json:"isFamilyMember"`
	HasReimbursementPattern TriState            `yaml:"has_reimbursement_pattern" json:"hasReimbursementPattern"`
	UPEBalance              decimal.NullDecimal `yaml:"upe_balance" json:"upeBalance"`
	UPEAgeYears             int                 `yaml:"upe_age_years" json:"upeAgeYears"`
}
