package calculation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ozledger/taxengine/internal/domain"
)

func TestComputeTaxSingleTier(t *testing.T) {
	tc := NewTieredRateCalculator()
	rates := domain.JurisdictionRates{
		AnnualThreshold: decimal.NewFromInt(900000),
		Rate:            decimal.NewFromFloat(0.0485),
	}

	tests := []struct {
		name     string
		taxable  decimal.Decimal
		expected decimal.Decimal
	}{
		{name: "Zero taxable", taxable: decimal.Zero, expected: decimal.Zero},
		{name: "Negative taxable", taxable: decimal.NewFromInt(-5000), expected: decimal.Zero},
		{name: "Round amount", taxable: decimal.NewFromInt(100000), expected: decimal.NewFromInt(4850)},
		{name: "Cents rounding", taxable: decimal.NewFromFloat(1234.56), expected: decimal.NewFromFloat(59.88)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tc.ComputeTax(tt.taxable, rates, decimal.Zero)
			if !result.Equal(tt.expected) {
				t.Errorf("ComputeTax(%s) = %s, expected %s", tt.taxable, result, tt.expected)
			}
		})
	}
}

func TestComputeTaxTwoTier(t *testing.T) {
	tc := NewTieredRateCalculator()
	// NSW-style configuration: 4.85% to $10M gross, 5.6% above.
	rates := domain.JurisdictionRates{
		AnnualThreshold:     decimal.NewFromInt(1200000),
		Rate:                decimal.NewFromFloat(0.0485),
		HigherRate:          decimal.NewFromFloat(0.056),
		HigherRateThreshold: decimal.NewFromInt(10000000),
	}

	tests := []struct {
		name      string
		taxable   decimal.Decimal
		deduction decimal.Decimal
		expected  decimal.Decimal
	}{
		{
			// $12M wages less $1.2M threshold: $8.8M at 4.85% + $2M at 5.6%.
			name:      "Wages above second tier",
			taxable:   decimal.NewFromInt(10800000),
			deduction: decimal.NewFromInt(1200000),
			expected:  decimal.NewFromInt(538800),
		},
		{
			name:      "Wages below second tier stay on tier one",
			taxable:   decimal.NewFromInt(5000000),
			deduction: decimal.NewFromInt(1200000),
			expected:  decimal.NewFromInt(242500),
		},
		{
			name:      "Exactly at the tier boundary",
			taxable:   decimal.NewFromInt(8800000),
			deduction: decimal.NewFromInt(1200000),
			expected:  decimal.NewFromInt(426800),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tc.ComputeTax(tt.taxable, rates, tt.deduction)
			if !result.Equal(tt.expected) {
				t.Errorf("ComputeTax(%s) = %s, expected %s", tt.taxable, result, tt.expected)
			}
		})
	}
}

func TestComputeTaxMonotonic(t *testing.T) {
	tc := NewTieredRateCalculator()
	rates := domain.JurisdictionRates{
		AnnualThreshold:     decimal.NewFromInt(1200000),
		Rate:                decimal.NewFromFloat(0.0485),
		HigherRate:          decimal.NewFromFloat(0.056),
		HigherRateThreshold: decimal.NewFromInt(10000000),
	}

	prev := decimal.Zero
	for taxable := int64(0); taxable <= 15000000; taxable += 500000 {
		tax := tc.ComputeTax(decimal.NewFromInt(taxable), rates, decimal.NewFromInt(1200000))
		if tax.LessThan(prev) {
			t.Fatalf("tax decreased from %s to %s at taxable %d", prev, tax, taxable)
		}
		prev = tax
	}
}

func TestComputeFlatTax(t *testing.T) {
	tc := NewTieredRateCalculator()

	// Division tax on $5,000 excess at 15%.
	result := tc.ComputeFlatTax(decimal.NewFromInt(5000), decimal.NewFromFloat(0.15))
	if !result.Equal(decimal.NewFromInt(750)) {
		t.Errorf("ComputeFlatTax(5000, 0.15) = %s, expected 750", result)
	}

	if !tc.ComputeFlatTax(decimal.NewFromInt(-100), decimal.NewFromFloat(0.15)).IsZero() {
		t.Error("expected zero tax on a negative amount")
	}
}
