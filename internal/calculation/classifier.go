package calculation

import (
	"strings"

	"github.com/ozledger/taxengine/internal/domain"
	"github.com/shopspring/decimal"
)

// ContributionClassifier guesses a contribution category from free-text
// description when the record carries no typed category. It is a best-effort
// classifier, not an oracle: callers must treat results below their
// confidence threshold as unknown and fall back to the conservative default.
type ContributionClassifier interface {
	Classify(description string) (domain.ContributionType, decimal.Decimal)
}

// ClassifierConfig carries the keyword lists and the acceptance threshold.
// The defaults preserve the statutory-test constants inherited from the
// original heuristic; override them through configuration rather than
// editing call sites.
type ClassifierConfig struct {
	MinConfidence decimal.Decimal
	// Keyword sets per category, matched case-insensitively against the
	// description.
	SalarySacrificeKeywords    []string
	SGKeywords                 []string
	EmployerAdditionalKeywords []string
	NonConcessionalKeywords    []string
}

// DefaultClassifierConfig returns the inherited heuristic constants.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MinConfidence:              decimal.NewFromFloat(0.5),
		SalarySacrificeKeywords:    []string{"salary sacrifice", "sacrifice", "ssc"},
		SGKeywords:                 []string{"sg", "superannuation guarantee", "guarantee"},
		EmployerAdditionalKeywords: []string{"additional", "employer extra", "voluntary employer"},
		NonConcessionalKeywords:    []string{"non-concessional", "non concessional", "after tax", "after-tax", "personal"},
	}
}

// KeywordClassifier is the keyword-scan implementation of
// ContributionClassifier.
type KeywordClassifier struct {
	Config ClassifierConfig
}

// NewKeywordClassifier creates a keyword classifier with the default
// heuristic constants.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{Config: DefaultClassifierConfig()}
}

// Classify scans the description for category keywords. Confidence is 0.9
// for an exact category hit, 0 when nothing matches. Ties between categories
// resolve in fixed order (non-concessional first, as the exclusion is the
// higher-stakes call), keeping results reproducible.
func (kc *KeywordClassifier) Classify(description string) (domain.ContributionType, decimal.Decimal) {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return "", decimal.Zero
	}

	matched := decimal.NewFromFloat(0.9)
	for _, kw := range kc.Config.NonConcessionalKeywords {
		if strings.Contains(desc, kw) {
			return domain.ContributionNonConcessional, matched
		}
	}
	for _, kw := range kc.Config.SalarySacrificeKeywords {
		if strings.Contains(desc, kw) {
			return domain.ContributionSalarySacrifice, matched
		}
	}
	for _, kw := range kc.Config.SGKeywords {
		if strings.Contains(desc, kw) {
			return domain.ContributionSG, matched
		}
	}
	for _, kw := range kc.Config.EmployerAdditionalKeywords {
		if strings.Contains(desc, kw) {
			return domain.ContributionEmployerAdditional, matched
		}
	}
	return "", decimal.Zero
}
