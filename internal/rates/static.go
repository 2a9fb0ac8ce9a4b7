package rates

import (
	"github.com/ozledger/taxengine/internal/domain"
	"github.com/shopspring/decimal"
)

// StaticFallbackVersion identifies the compiled-in table. Bump it when the
// figures are refreshed so persisted results stay attributable.
const StaticFallbackVersion = "static_fallback_2024_25"

// DefaultStatic returns the versioned 2024-25 fallback rate table. Results
// computed from it carry reduced confidence; a live rate source should be
// preferred whenever reachable.
func DefaultStatic() *StaticSource {
	return &StaticSource{Config: &domain.RateConfig{
		Period: "2024-25",
		Jurisdictions: map[string]domain.JurisdictionRates{
			"NSW": {
				AnnualThreshold:     decimal.NewFromInt(1200000),
				Rate:                decimal.NewFromFloat(0.0485),
				HigherRate:          decimal.NewFromFloat(0.056),
				HigherRateThreshold: decimal.NewFromInt(10000000),
			},
			"VIC": {
				AnnualThreshold: decimal.NewFromInt(900000),
				Rate:            decimal.NewFromFloat(0.0485),
			},
			"QLD": {
				AnnualThreshold:     decimal.NewFromInt(1300000),
				Rate:                decimal.NewFromFloat(0.0475),
				HigherRate:          decimal.NewFromFloat(0.0495),
				HigherRateThreshold: decimal.NewFromInt(6500000),
			},
			"SA": {
				AnnualThreshold: decimal.NewFromInt(1500000),
				Rate:            decimal.NewFromFloat(0.0495),
			},
			"WA": {
				AnnualThreshold: decimal.NewFromInt(1000000),
				Rate:            decimal.NewFromFloat(0.055),
			},
			"TAS": {
				AnnualThreshold:     decimal.NewFromInt(1250000),
				Rate:                decimal.NewFromFloat(0.04),
				HigherRate:          decimal.NewFromFloat(0.0611),
				HigherRateThreshold: decimal.NewFromInt(2000000),
			},
		},
		Superannuation: domain.SuperRates{
			BaseCaps: map[string]decimal.Decimal{
				"2018-19": decimal.NewFromInt(25000),
				"2019-20": decimal.NewFromInt(25000),
				"2020-21": decimal.NewFromInt(25000),
				"2021-22": decimal.NewFromInt(27500),
				"2022-23": decimal.NewFromInt(27500),
				"2023-24": decimal.NewFromInt(27500),
				"2024-25": decimal.NewFromInt(30000),
			},
			DivisionTaxRate:         decimal.NewFromFloat(0.15),
			CarryForwardBalanceGate: decimal.NewFromInt(500000),
			SchemeStartPeriod:       "2018-19",
			ApproachingCapPercent:   decimal.NewFromInt(80),
		},
		Trust: domain.TrustRates{
			TopMarginalRate:      decimal.NewFromFloat(0.45),
			MedicareLevyRate:     decimal.NewFromFloat(0.02),
			ExcessiveUPEAgeYears: 2,
		},
		Source:     StaticFallbackVersion,
		Confidence: domain.ConfidenceReduced,
	}}
}
