package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ozledger/taxengine/internal/domain"
	"github.com/ozledger/taxengine/pkg/fy"
)

// BatchInput is one analysis input file: the reporting entity, its records
// for the period, and an optional rate-table override.
type BatchInput struct {
	Entity        EntityInfo          `yaml:"entity"`
	Grouping      *GroupingInput      `yaml:"grouping,omitempty"`
	WageRecords   []WageRecordInput   `yaml:"wage_records,omitempty"`
	Contributions []ContributionInput `yaml:"contributions,omitempty"`
	Distributions []DistributionInput `yaml:"distributions,omitempty"`
	Rates         *domain.RateConfig  `yaml:"rates,omitempty"`
}

// EntityInfo identifies the reporting entity and period.
type EntityInfo struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Period string `yaml:"period"`
}

// GroupingInput declares payroll-tax group membership.
type GroupingInput struct {
	IsGroupMember   bool            `yaml:"is_group_member"`
	TotalGroupWages decimal.Decimal `yaml:"total_group_wages"`
	EntityCount     int             `yaml:"entity_count"`
	EntityNames     []string        `yaml:"entity_names"`
}

// WageRecordInput mirrors domain.WageRecord with optional booleans left as
// pointers so "not supplied" survives into the tri-state fields.
type WageRecordInput struct {
	Jurisdiction              string          `yaml:"jurisdiction"`
	GrossWages                decimal.Decimal `yaml:"gross_wages"`
	ContractorPayments        decimal.Decimal `yaml:"contractor_payments"`
	ContractorDeemingAssessed *bool           `yaml:"contractor_deeming_assessed"`
	EmployeeCount             int             `yaml:"employee_count"`
}

// ContributionInput mirrors domain.Contribution.
type ContributionInput struct {
	BeneficiaryID          string                     `yaml:"beneficiary_id"`
	Amount                 decimal.Decimal            `yaml:"amount"`
	Type                   string                     `yaml:"type"`
	Description            string                     `yaml:"description"`
	Period                 string                     `yaml:"period"`
	TotalBalance           *decimal.Decimal           `yaml:"total_balance"`
	PriorYearContributions map[string]decimal.Decimal `yaml:"prior_year_contributions"`
}

// DistributionInput mirrors domain.Distribution.
type DistributionInput struct {
	TrustID                 string           `yaml:"trust_id"`
	BeneficiaryID           string           `yaml:"beneficiary_id"`
	Amount                  decimal.Decimal  `yaml:"amount"`
	Type                    string           `yaml:"type"`
	IsNonResident           *bool            `yaml:"is_non_resident"`
	IsMinor                 *bool            `yaml:"is_minor"`
	IsRelatedParty          *bool            `yaml:"is_related_party"`
	IsFamilyMember          *bool            `yaml:"is_family_member"`
	HasReimbursementPattern *bool            `yaml:"has_reimbursement_pattern"`
	UPEBalance              *decimal.Decimal `yaml:"upe_balance"`
	UPEAgeYears             int              `yaml:"upe_age_years"`
}

// InputParser handles parsing of batch input files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a batch input from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*BatchInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var batch BatchInput
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.Validate(&batch); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	return &batch, nil
}

// Validate checks the batch's structure. Per-record validity is the engines'
// concern; this rejects only inputs the engines cannot be invoked on at all.
func (ip *InputParser) Validate(batch *BatchInput) error {
	if batch.Entity.ID == "" {
		return fmt.Errorf("entity id is required")
	}
	if _, err := fy.Parse(batch.Entity.Period); err != nil {
		return fmt.Errorf("entity period: %w", err)
	}
	if batch.Rates != nil && batch.Rates.Period != "" && batch.Rates.Period != batch.Entity.Period {
		return fmt.Errorf("rate table period %s does not match entity period %s", batch.Rates.Period, batch.Entity.Period)
	}
	for i, c := range batch.Contributions {
		for period := range c.PriorYearContributions {
			if _, err := fy.Parse(period); err != nil {
				return fmt.Errorf("contribution %d: prior year %q: %w", i, period, err)
			}
		}
	}
	return nil
}

// GroupingContext converts the declared grouping, or nil when absent.
func (b *BatchInput) GroupingContext() *domain.GroupingContext {
	if b.Grouping == nil {
		return nil
	}
	return &domain.GroupingContext{
		IsGroupMember:   b.Grouping.IsGroupMember,
		TotalGroupWages: b.Grouping.TotalGroupWages,
		EntityCount:     b.Grouping.EntityCount,
		EntityNames:     b.Grouping.EntityNames,
	}
}

// DomainWageRecords converts the wage-record inputs into domain records.
func (b *BatchInput) DomainWageRecords() []domain.WageRecord {
	records := make([]domain.WageRecord, 0, len(b.WageRecords))
	for _, r := range b.WageRecords {
		records = append(records, domain.WageRecord{
			Jurisdiction:              r.Jurisdiction,
			GrossWages:                r.GrossWages,
			ContractorPayments:        r.ContractorPayments,
			ContractorDeemingAssessed: domain.TriStateFromPtr(r.ContractorDeemingAssessed),
			EmployeeCount:             r.EmployeeCount,
		})
	}
	return records
}

// DomainContributions converts the contribution inputs into domain records.
// A contribution without its own period inherits the entity period.
func (b *BatchInput) DomainContributions() []domain.Contribution {
	records := make([]domain.Contribution, 0, len(b.Contributions))
	for _, c := range b.Contributions {
		period := c.Period
		if period == "" {
			period = b.Entity.Period
		}
		balance := decimal.NullDecimal{}
		if c.TotalBalance != nil {
			balance = decimal.NullDecimal{Decimal: *c.TotalBalance, Valid: true}
		}
		records = append(records, domain.Contribution{
			BeneficiaryID:          c.BeneficiaryID,
			Amount:                 c.Amount,
			Type:                   domain.ContributionType(c.Type),
			Description:            c.Description,
			Period:                 period,
			TotalBalance:           balance,
			PriorYearContributions: c.PriorYearContributions,
		})
	}
	return records
}

// DomainDistributions converts the distribution inputs into domain records.
func (b *BatchInput) DomainDistributions() []domain.Distribution {
	records := make([]domain.Distribution, 0, len(b.Distributions))
	for _, d := range b.Distributions {
		balance := decimal.NullDecimal{}
		if d.UPEBalance != nil {
			balance = decimal.NullDecimal{Decimal: *d.UPEBalance, Valid: true}
		}
		records = append(records, domain.Distribution{
			TrustID:                 d.TrustID,
			BeneficiaryID:           d.BeneficiaryID,
			Amount:                  d.Amount,
			Type:                    domain.DistributionType(d.Type),
			IsNonResident:           domain.TriStateFromPtr(d.IsNonResident),
			IsMinor:                 domain.TriStateFromPtr(d.IsMinor),
			IsRelatedParty:          domain.TriStateFromPtr(d.IsRelatedParty),
			IsFamilyMember:          domain.TriStateFromPtr(d.IsFamilyMember),
			HasReimbursementPattern: domain.TriStateFromPtr(d.HasReimbursementPattern),
			UPEBalance:              balance,
			UPEAgeYears:             d.UPEAgeYears,
		})
	}
	return records
}
