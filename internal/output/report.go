package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/ozledger/taxengine/internal/domain"
)

// ReportGenerator renders analysis results in console, json, or csv form.
type ReportGenerator struct {
	Out io.Writer
}

// NewReportGenerator creates a report generator writing to stdout.
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{Out: os.Stdout}
}

// FormatCurrency formats a monetary amount with a dollar sign and cents.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercent formats a proportion (0.3) as a percentage string (30.00%).
func FormatPercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func (rg *ReportGenerator) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(rg.Out, string(data))
	return err
}

// PayrollReport renders a payroll-tax analysis in the given format.
func (rg *ReportGenerator) PayrollReport(analysis *domain.PayrollTaxAnalysis, format string) error {
	switch format {
	case "console":
		return rg.payrollConsole(analysis)
	case "json":
		return rg.writeJSON(analysis)
	case "csv":
		return rg.payrollCSV(analysis)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (rg *ReportGenerator) payrollConsole(analysis *domain.PayrollTaxAnalysis) error {
	fmt.Fprintln(rg.Out, titleStyle.Render(fmt.Sprintf("PAYROLL TAX ASSESSMENT — %s", analysis.Period)))
	fmt.Fprintln(rg.Out)
	for _, r := range analysis.Results {
		fmt.Fprintln(rg.Out, sectionStyle.Render(r.Jurisdiction))
		fmt.Fprintf(rg.Out, "  %s %s\n", labelStyle.Render("Total wages:"), valueStyle.Render(FormatCurrency(r.TotalWages)))
		fmt.Fprintf(rg.Out, "  %s %s\n", labelStyle.Render("Threshold deduction:"), FormatCurrency(r.ThresholdDeduction))
		fmt.Fprintf(rg.Out, "  %s %s\n", labelStyle.Render("Taxable wages:"), FormatCurrency(r.TaxableWages))
		fmt.Fprintf(rg.Out, "  %s %s\n", labelStyle.Render("Tax payable:"), valueStyle.Render(FormatCurrency(r.TaxPayable)))
		fmt.Fprintf(rg.Out, "  %s %s\n", labelStyle.Render("Effective rate:"), FormatPercent(r.EffectiveRate))
		if r.ContractorWarning != "" {
			fmt.Fprintf(rg.Out, "  %s\n", severityStyles[domain.SeverityMedium].Render("! "+r.ContractorWarning))
		}
		fmt.Fprintln(rg.Out)
	}
	fmt.Fprintf(rg.Out, "%s %s\n", labelStyle.Render("Total tax payable:"), valueStyle.Render(FormatCurrency(analysis.TotalTaxPayable)))
	fmt.Fprintf(rg.Out, "%s %s (%s of labour cost)\n", labelStyle.Render("Contractor risk:"),
		renderRiskLevel(analysis.ContractorRisk), FormatPercent(analysis.ContractorProportion))
	rg.footer(analysis.Recommendations, analysis.SkippedRecords, analysis.TaxRateSource, analysis.Confidence)
	return nil
}

func (rg *ReportGenerator) payrollCSV(analysis *domain.PayrollTaxAnalysis) error {
	w := csv.NewWriter(rg.Out)
	header := []string{"Jurisdiction", "TotalWages", "ThresholdDeduction", "TaxableWages", "TaxPayable", "EffectiveRate"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range analysis.Results {
		row := []string{
			r.Jurisdiction,
			r.TotalWages.StringFixed(2),
			r.ThresholdDeduction.StringFixed(2),
			r.TaxableWages.StringFixed(2),
			r.TaxPayable.StringFixed(2),
			r.EffectiveRate.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// CapReport renders a concessional-cap analysis in the given format.
func (rg *ReportGenerator) CapReport(analysis *domain.CapAnalysis, format string) error {
	switch format {
	case "console":
		return rg.capConsole(analysis)
	case "json":
		return rg.writeJSON(analysis)
	case "csv":
		return rg.capCSV(analysis)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (rg *ReportGenerator) capConsole(analysis *domain.CapAnalysis) error {
	fmt.Fprintln(rg.Out, titleStyle.Render(fmt.Sprintf("CONCESSIONAL CAP ASSESSMENT — %s", analysis.Period)))
	fmt.Fprintln(rg.Out)
	for _, s := range analysis.Summaries {
		fmt.Fprintln(rg.Out, sectionStyle.Render(s.BeneficiaryID))
		fmt.Fprintf(rg.Out, "  %s %s\n", labelStyle.Render("Concessional contributions:"), valueStyle.Render(FormatCurrency(s.TotalConcessional)))
		fmt.Fprintf(rg.Out, "  %s %s (base %s + carry-forward %s)\n", labelStyle.Render("Effective cap:"),
			FormatCurrency(s.EffectiveCap), FormatCurrency(s.BaseCap), FormatCurrency(s.TotalCarryForward))
		fmt.Fprintf(rg.Out, "  %s %s%%\n", labelStyle.Render("Cap usage:"), s.CapUsagePercentage.StringFixed(2))
		switch {
		case s.BreachesCap:
			fmt.Fprintf(rg.Out, "  %s excess %s, Division tax %s\n",
				severityStyles[domain.SeverityHigh].Render("CAP BREACHED:"),
				FormatCurrency(s.ExcessContributions), FormatCurrency(s.DivisionTaxPayable))
		case s.ApproachingCap:
			fmt.Fprintf(rg.Out, "  %s\n", severityStyles[domain.SeverityMedium].Render("Approaching cap"))
		}
		for _, rec := range s.Recommendations {
			fmt.Fprintf(rg.Out, "  %s\n", noteStyle.Render("- "+rec))
		}
		fmt.Fprintln(rg.Out)
	}
	fmt.Fprintf(rg.Out, "%s %d breaches, total Division tax %s\n", labelStyle.Render("Across beneficiaries:"),
		analysis.BreachCount, FormatCurrency(analysis.TotalDivisionTax))
	rg.footer(analysis.Recommendations, analysis.SkippedRecords, analysis.TaxRateSource, analysis.Confidence)
	return nil
}

func (rg *ReportGenerator) capCSV(analysis *domain.CapAnalysis) error {
	w := csv.NewWriter(rg.Out)
	header := []string{"BeneficiaryID", "TotalConcessional", "BaseCap", "CarryForward", "EffectiveCap", "BreachesCap", "Excess", "DivisionTax", "UsagePercent"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range analysis.Summaries {
		row := []string{
			s.BeneficiaryID,
			s.TotalConcessional.StringFixed(2),
			s.BaseCap.StringFixed(2),
			s.TotalCarryForward.StringFixed(2),
			s.EffectiveCap.StringFixed(2),
			strconv.FormatBool(s.BreachesCap),
			s.ExcessContributions.StringFixed(2),
			s.DivisionTaxPayable.StringFixed(2),
			s.CapUsagePercentage.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// TrustReport renders distribution-compliance analyses in the given format.
func (rg *ReportGenerator) TrustReport(analyses []domain.DistributionAnalysis, format string) error {
	switch format {
	case "console":
		return rg.trustConsole(analyses)
	case "json":
		return rg.writeJSON(analyses)
	case "csv":
		return rg.trustCSV(analyses)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (rg *ReportGenerator) trustConsole(analyses []domain.DistributionAnalysis) error {
	fmt.Fprintln(rg.Out, titleStyle.Render("TRUST DISTRIBUTION COMPLIANCE"))
	fmt.Fprintln(rg.Out)
	for _, a := range analyses {
		fmt.Fprintln(rg.Out, sectionStyle.Render(fmt.Sprintf("%s — %s", a.TrustID, a.Period)))
		fmt.Fprintf(rg.Out, "  %s %s\n", labelStyle.Render("Total distributed:"), FormatCurrency(a.TotalDistributed))
		fmt.Fprintf(rg.Out, "  %s %s\n", labelStyle.Render("Overall risk:"), renderSeverity(a.OverallRiskLevel))
		if a.ProfessionalReviewRequired {
			fmt.Fprintf(rg.Out, "  %s\n", severityStyles[domain.SeverityHigh].Render("Professional review required"))
		}
		for _, f := range a.Flags {
			fmt.Fprintf(rg.Out, "  [%s] %s %s (%s)\n", renderSeverity(f.Severity), string(f.FlagType),
				FormatCurrency(f.Amount), f.BeneficiaryID)
			fmt.Fprintf(rg.Out, "      %s\n", noteStyle.Render(f.Recommendation))
			if f.FamilyDealingNote != "" {
				fmt.Fprintf(rg.Out, "      %s\n", noteStyle.Render(f.FamilyDealingNote))
			}
		}
		for _, p := range a.BeneficiaryProfiles {
			fmt.Fprintf(rg.Out, "  %s %s score %s\n", labelStyle.Render("Beneficiary"), p.BeneficiaryID, p.RiskScore.String())
		}
		fmt.Fprintf(rg.Out, "  %s\n", a.ComplianceSummary)
		rg.footer(a.Recommendations, a.SkippedRecords, a.TaxRateSource, a.Confidence)
		fmt.Fprintln(rg.Out)
	}
	return nil
}

func (rg *ReportGenerator) trustCSV(analyses []domain.DistributionAnalysis) error {
	w := csv.NewWriter(rg.Out)
	header := []string{"TrustID", "BeneficiaryID", "FlagType", "Severity", "Amount", "FamilyDealing"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, a := range analyses {
		for _, f := range a.Flags {
			row := []string{
				a.TrustID,
				f.BeneficiaryID,
				string(f.FlagType),
				string(f.Severity),
				f.Amount.StringFixed(2),
				strconv.FormatBool(f.FamilyDealingNote != ""),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// footer renders recommendations, skipped records and rate provenance shared
// by all console reports.
func (rg *ReportGenerator) footer(recommendations []string, skipped []domain.SkippedRecord, source, confidence string) {
	for _, rec := range recommendations {
		fmt.Fprintf(rg.Out, "%s\n", noteStyle.Render("- "+rec))
	}
	for _, s := range skipped {
		fmt.Fprintf(rg.Out, "%s\n", severityStyles[domain.SeverityMedium].Render(
			fmt.Sprintf("! record %d skipped: %s", s.Index, s.Reason)))
	}
	if source != "" {
		fmt.Fprintf(rg.Out, "%s\n", noteStyle.Render(fmt.Sprintf("Rates: %s (confidence %s)", source, confidence)))
	}
}
