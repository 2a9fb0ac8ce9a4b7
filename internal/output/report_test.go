package output

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozledger/taxengine/internal/domain"
)

func payrollFixture() *domain.PayrollTaxAnalysis {
	return &domain.PayrollTaxAnalysis{
		Period: "2024-25",
		Results: []domain.PayrollTaxResult{
			{
				Jurisdiction:       "NSW",
				TotalWages:         decimal.NewFromInt(2500000),
				ThresholdDeduction: decimal.NewFromInt(1200000),
				TaxableWages:       decimal.NewFromInt(1300000),
				TaxPayable:         decimal.NewFromInt(63050),
				EffectiveRate:      decimal.NewFromFloat(0.02522),
				ContractorWarning:  "contractor payments have not been assessed for deeming",
			},
		},
		TotalTaxPayable:      decimal.NewFromInt(63050),
		ContractorProportion: decimal.NewFromFloat(0.138),
		ContractorRisk:       domain.RiskMedium,
		TaxRateSource:        domain.RateSourceLive,
		Confidence:           domain.ConfidenceHigh,
		SkippedRecords: []domain.SkippedRecord{
			{Index: 2, Reason: "wage record has no jurisdiction"},
		},
	}
}

func capFixture() *domain.CapAnalysis {
	return &domain.CapAnalysis{
		Period: "2024-25",
		Summaries: []domain.CapSummary{
			{
				BeneficiaryID:       "emp-001",
				TotalConcessional:   decimal.NewFromInt(50000),
				BaseCap:             decimal.NewFromInt(30000),
				TotalCarryForward:   decimal.NewFromInt(0),
				EffectiveCap:        decimal.NewFromInt(30000),
				BreachesCap:         true,
				ExcessContributions: decimal.NewFromInt(20000),
				DivisionTaxPayable:  decimal.NewFromInt(3000),
				CapUsagePercentage:  decimal.NewFromFloat(166.67),
			},
		},
		BreachCount:      1,
		TotalDivisionTax: decimal.NewFromInt(3000),
		TaxRateSource:    "static_fallback_2024_25",
		Confidence:       domain.ConfidenceReduced,
	}
}

func trustFixture() []domain.DistributionAnalysis {
	return []domain.DistributionAnalysis{
		{
			TrustID:          "trust-01",
			Period:           "2024-25",
			TotalDistributed: decimal.NewFromInt(90000),
			Flags: []domain.ComplianceFlag{
				{
					FlagType:          domain.FlagNonResidentDistribution,
					Severity:          domain.SeverityMedium,
					BeneficiaryID:     "ben-01",
					Amount:            decimal.NewFromInt(90000),
					Recommendation:    "Confirm withholding obligations for the non-resident beneficiary.",
					FamilyDealingNote: "severity reduced under the ordinary family dealing exclusion",
				},
			},
			BeneficiaryProfiles: []domain.BeneficiaryRiskProfile{
				{BeneficiaryID: "ben-01", RiskScore: decimal.Zero, FamilyDealingExclusion: "s100A(13) ordinary family dealing"},
			},
			OverallRiskLevel:  domain.SeverityMedium,
			ComplianceSummary: "1 flag raised across 1 beneficiary",
		},
	}
}

func TestPayrollReportFormats(t *testing.T) {
	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		rg := &ReportGenerator{Out: &buf}
		require.NoError(t, rg.PayrollReport(payrollFixture(), "console"))

		out := buf.String()
		assert.Contains(t, out, "PAYROLL TAX ASSESSMENT")
		assert.Contains(t, out, "NSW")
		assert.Contains(t, out, "$63050.00")
		assert.Contains(t, out, "deeming")
		assert.Contains(t, out, "record 2 skipped")
		assert.Contains(t, out, "Rates: live")
	})

	t.Run("json round-trips", func(t *testing.T) {
		var buf bytes.Buffer
		rg := &ReportGenerator{Out: &buf}
		require.NoError(t, rg.PayrollReport(payrollFixture(), "json"))

		var decoded domain.PayrollTaxAnalysis
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "2024-25", decoded.Period)
		require.Len(t, decoded.Results, 1)
		assert.True(t, decoded.Results[0].TaxPayable.Equal(decimal.NewFromInt(63050)))
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		rg := &ReportGenerator{Out: &buf}
		require.NoError(t, rg.PayrollReport(payrollFixture(), "csv"))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Jurisdiction,TotalWages,ThresholdDeduction,TaxableWages,TaxPayable,EffectiveRate", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "NSW,2500000.00,"))
	})

	t.Run("unsupported format", func(t *testing.T) {
		rg := &ReportGenerator{Out: &bytes.Buffer{}}
		err := rg.PayrollReport(payrollFixture(), "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})
}

func TestCapReportFormats(t *testing.T) {
	t.Run("console shows breach", func(t *testing.T) {
		var buf bytes.Buffer
		rg := &ReportGenerator{Out: &buf}
		require.NoError(t, rg.CapReport(capFixture(), "console"))

		out := buf.String()
		assert.Contains(t, out, "CONCESSIONAL CAP ASSESSMENT")
		assert.Contains(t, out, "CAP BREACHED")
		assert.Contains(t, out, "$20000.00")
		assert.Contains(t, out, "$3000.00")
		assert.Contains(t, out, "static_fallback_2024_25")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		rg := &ReportGenerator{Out: &buf}
		require.NoError(t, rg.CapReport(capFixture(), "csv"))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], "emp-001")
		assert.Contains(t, lines[1], "true")
	})

	t.Run("unsupported format", func(t *testing.T) {
		rg := &ReportGenerator{Out: &bytes.Buffer{}}
		assert.Error(t, rg.CapReport(capFixture(), "html"))
	})
}

func TestTrustReportFormats(t *testing.T) {
	t.Run("console shows downgrade note", func(t *testing.T) {
		var buf bytes.Buffer
		rg := &ReportGenerator{Out: &buf}
		require.NoError(t, rg.TrustReport(trustFixture(), "console"))

		out := buf.String()
		assert.Contains(t, out, "TRUST DISTRIBUTION COMPLIANCE")
		assert.Contains(t, out, "trust-01")
		assert.Contains(t, out, string(domain.FlagNonResidentDistribution))
		assert.Contains(t, out, "ordinary family dealing exclusion")
	})

	t.Run("json round-trips", func(t *testing.T) {
		var buf bytes.Buffer
		rg := &ReportGenerator{Out: &buf}
		require.NoError(t, rg.TrustReport(trustFixture(), "json"))

		var decoded []domain.DistributionAnalysis
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "trust-01", decoded[0].TrustID)
		require.Len(t, decoded[0].Flags, 1)
		assert.Equal(t, domain.SeverityMedium, decoded[0].Flags[0].Severity)
	})

	t.Run("csv marks family dealing", func(t *testing.T) {
		var buf bytes.Buffer
		rg := &ReportGenerator{Out: &buf}
		require.NoError(t, rg.TrustReport(trustFixture(), "csv"))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], "non_resident_distribution")
		assert.Contains(t, lines[1], "true")
	})
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$1234.50", FormatCurrency(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "4.85%", FormatPercent(decimal.NewFromFloat(0.0485)))
}
