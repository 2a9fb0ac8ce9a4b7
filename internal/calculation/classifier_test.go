package calculation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ozledger/taxengine/internal/domain"
)

func TestKeywordClassifier(t *testing.T) {
	kc := NewKeywordClassifier()

	tests := []struct {
		name        string
		description string
		expected    domain.ContributionType
		confident   bool
	}{
		{name: "Salary sacrifice", description: "Salary Sacrifice July", expected: domain.ContributionSalarySacrifice, confident: true},
		{name: "Guarantee payment", description: "superannuation guarantee Q1", expected: domain.ContributionSG, confident: true},
		{name: "After-tax personal", description: "after-tax personal deposit", expected: domain.ContributionNonConcessional, confident: true},
		{name: "Employer voluntary", description: "voluntary employer top up", expected: domain.ContributionEmployerAdditional, confident: true},
		{name: "No signal", description: "quarterly remittance", expected: "", confident: false},
		{name: "Empty description", description: "", expected: "", confident: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, confidence := kc.Classify(tt.description)
			if category != tt.expected {
				t.Errorf("Classify(%q) category = %q, expected %q", tt.description, category, tt.expected)
			}
			meets := confidence.GreaterThanOrEqual(kc.Config.MinConfidence)
			if meets != tt.confident {
				t.Errorf("Classify(%q) confidence %s, expected confident=%v", tt.description, confidence, tt.confident)
			}
		})
	}
}

func TestClassifierNonConcessionalWinsTies(t *testing.T) {
	kc := NewKeywordClassifier()

	// Exclusion is the higher-stakes call, so it resolves first.
	category, _ := kc.Classify("personal salary sacrifice arrangement")
	if category != domain.ContributionNonConcessional {
		t.Errorf("category = %q, expected non-concessional to win the tie", category)
	}
}

func TestClassifierConfigOverride(t *testing.T) {
	kc := &KeywordClassifier{Config: ClassifierConfig{
		MinConfidence: decimal.NewFromFloat(0.95),
		SGKeywords:    []string{"guarantee"},
	}}

	category, confidence := kc.Classify("guarantee contribution")
	if category != domain.ContributionSG {
		t.Errorf("category = %q, expected SG", category)
	}
	if confidence.GreaterThanOrEqual(kc.Config.MinConfidence) {
		t.Error("a raised floor must leave the keyword hit below confidence")
	}
}
