package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/ozledger/taxengine/internal/domain"
	"github.com/shopspring/decimal"
)

// Contractor-composition risk tiers. Proportion is contractor payments over
// total labour cost across all jurisdictions combined.
var (
	contractorMediumFloor = decimal.NewFromFloat(0.2)
	contractorHighFloor   = decimal.NewFromFloat(0.5)
)

// ContractorDeemingRiskAssessor classifies the labour-cost composition risk
// arising from contractor payments that may be deemed wages.
type ContractorDeemingRiskAssessor struct{}

// NewContractorDeemingRiskAssessor creates a new assessor.
func NewContractorDeemingRiskAssessor() *ContractorDeemingRiskAssessor {
	return &ContractorDeemingRiskAssessor{}
}

// Assess returns the contractor proportion of total labour cost and its risk
// tier: below 0.2 low, 0.2 to below 0.5 medium, 0.5 and above high. Zero
// contractor payments always classify low.
func (ca *ContractorDeemingRiskAssessor) Assess(totalGrossWages, totalContractorPayments decimal.Decimal) (decimal.Decimal, domain.RiskLevel) {
	if totalContractorPayments.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.RiskLow
	}
	labourCost := totalGrossWages.Add(totalContractorPayments)
	if labourCost.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.RiskLow
	}
	proportion := totalContractorPayments.Div(labourCost)
	switch {
	case proportion.GreaterThanOrEqual(contractorHighFloor):
		return proportion, domain.RiskHigh
	case proportion.GreaterThanOrEqual(contractorMediumFloor):
		return proportion, domain.RiskMedium
	default:
		return proportion, domain.RiskLow
	}
}

// PayrollTaxEngine orchestrates threshold apportionment, tiered tax and
// contractor risk assessment across an entity's jurisdictions. It is pure:
// identical inputs produce identical output apart from the AsOf stamp, which
// comes from the injectable clock.
type PayrollTaxEngine struct {
	Tiers        *TieredRateCalculator
	Apportioner  *ThresholdApportioner
	RiskAssessor *ContractorDeemingRiskAssessor
	Aggregator   *RiskScoreAggregator
	Now          func() time.Time
}

// NewPayrollTaxEngine creates a payroll tax engine with the standard
// calculators and the system clock.
func NewPayrollTaxEngine() *PayrollTaxEngine {
	return &PayrollTaxEngine{
		Tiers:        NewTieredRateCalculator(),
		Apportioner:  NewThresholdApportioner(),
		RiskAssessor: NewContractorDeemingRiskAssessor(),
		Aggregator:   NewRiskScoreAggregator(),
		Now:          time.Now,
	}
}

// AnalyzePayrollTax is the package-level entry point of the payroll engine.
func AnalyzePayrollTax(records []domain.WageRecord, rates *domain.RateConfig, grouping *domain.GroupingContext) (*domain.PayrollTaxAnalysis, error) {
	return NewPayrollTaxEngine().Analyze(records, rates, grouping)
}

// Analyze runs the engine over one entity's wage records for one period.
//
// Validation policy: malformed records (missing jurisdiction, negative
// amounts, duplicate jurisdiction, no configured rates) are skipped
// individually with a surfaced reason; the rest of the batch proceeds. An
// empty batch is no activity, not an error.
func (e *PayrollTaxEngine) Analyze(records []domain.WageRecord, rates *domain.RateConfig, grouping *domain.GroupingContext) (*domain.PayrollTaxAnalysis, error) {
	if rates == nil {
		return nil, fmt.Errorf("rate config is required")
	}

	analysis := &domain.PayrollTaxAnalysis{
		AsOf:          e.Now().UTC(),
		Period:        rates.Period,
		TaxRateSource: rates.Source,
		Confidence:    rates.Confidence,
	}

	valid := make([]domain.WageRecord, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		switch {
		case rec.Jurisdiction == "":
			analysis.SkippedRecords = append(analysis.SkippedRecords, domain.SkippedRecord{
				Index: i, Reason: "wage record has no jurisdiction"})
		case rec.GrossWages.LessThan(decimal.Zero) || rec.ContractorPayments.LessThan(decimal.Zero):
			analysis.SkippedRecords = append(analysis.SkippedRecords, domain.SkippedRecord{
				Index: i, Key: rec.Jurisdiction, Reason: "wage record has negative amounts"})
		case seen[rec.Jurisdiction]:
			analysis.SkippedRecords = append(analysis.SkippedRecords, domain.SkippedRecord{
				Index: i, Key: rec.Jurisdiction, Reason: "duplicate jurisdiction in batch"})
		default:
			if _, ok := rates.JurisdictionFor(rec.Jurisdiction); !ok {
				analysis.SkippedRecords = append(analysis.SkippedRecords, domain.SkippedRecord{
					Index: i, Key: rec.Jurisdiction, Reason: "no rates configured for jurisdiction"})
				analysis.Recommendations = append(analysis.Recommendations,
					fmt.Sprintf("No %s rates are configured for %s; supply them to include this jurisdiction in the assessment.", rec.Jurisdiction, rates.Period))
				continue
			}
			seen[rec.Jurisdiction] = true
			valid = append(valid, rec)
		}
	}

	if len(valid) == 0 {
		analysis.ContractorRisk = domain.RiskLow
		analysis.OverallRiskLevel = domain.SeverityLow
		return analysis, nil
	}

	wagesByJurisdiction := make(map[string]decimal.Decimal, len(valid))
	totalGross, totalContractor := decimal.Zero, decimal.Zero
	for _, rec := range valid {
		wagesByJurisdiction[rec.Jurisdiction] = rec.LabourCost()
		totalGross = totalGross.Add(rec.GrossWages)
		totalContractor = totalContractor.Add(rec.ContractorPayments)
	}

	thresholds := e.Apportioner.Apportion(wagesByJurisdiction, rates.Jurisdictions, grouping)

	sort.Slice(valid, func(i, j int) bool { return valid[i].Jurisdiction < valid[j].Jurisdiction })
	for _, rec := range valid {
		jr, _ := rates.JurisdictionFor(rec.Jurisdiction)
		result := e.assessJurisdiction(rec, jr, thresholds[rec.Jurisdiction])
		if result.ContractorWarning != "" {
			analysis.Warnings = append(analysis.Warnings, result.ContractorWarning)
			if !rec.ContractorDeemingAssessed.Known() {
				analysis.Recommendations = append(analysis.Recommendations,
					fmt.Sprintf("Contractor deeming status for %s was not supplied; it has been treated as unassessed.", rec.Jurisdiction))
			}
		}
		analysis.TotalTaxPayable = analysis.TotalTaxPayable.Add(result.TaxPayable)
		analysis.Results = append(analysis.Results, result)
	}

	analysis.ContractorProportion, analysis.ContractorRisk = e.RiskAssessor.Assess(totalGross, totalContractor)
	analysis.OverallRiskLevel = e.Aggregator.OverallLevel([]domain.Severity{riskLevelSeverity(analysis.ContractorRisk)})
	if analysis.ContractorRisk == domain.RiskHigh {
		analysis.Recommendations = append(analysis.Recommendations,
			"Contractor payments are half or more of total labour cost; review contractor arrangements against the relevant contract provisions.")
	}
	return analysis, nil
}

// assessJurisdiction computes the per-jurisdiction result. The threshold
// deduction is capped at total wages so taxable wages never go negative.
func (e *PayrollTaxEngine) assessJurisdiction(rec domain.WageRecord, jr domain.JurisdictionRates, apportionedThreshold decimal.Decimal) domain.PayrollTaxResult {
	totalWages := rec.LabourCost()
	deduction := decimal.Min(totalWages, apportionedThreshold)
	taxable := totalWages.Sub(deduction)
	tax := e.Tiers.ComputeTax(taxable, jr, deduction)

	effectiveRate := decimal.Zero
	if totalWages.GreaterThan(decimal.Zero) {
		effectiveRate = tax.Div(totalWages).Round(6)
	}

	result := domain.PayrollTaxResult{
		Jurisdiction:       rec.Jurisdiction,
		TotalWages:         totalWages,
		ThresholdDeduction: deduction,
		TaxableWages:       taxable,
		TaxPayable:         tax,
		EffectiveRate:      effectiveRate,
	}
	// The warning is independent of whether a breach occurred: unassessed
	// contractor payments are a compliance exposure on their own.
	if rec.ContractorPayments.GreaterThan(decimal.Zero) && !rec.ContractorDeemingAssessed.True() {
		result.ContractorWarning = fmt.Sprintf(
			"%s: %s of contractor payments have not been assessed for deeming as wages.",
			rec.Jurisdiction, rec.ContractorPayments.StringFixed(2))
	}
	return result
}
