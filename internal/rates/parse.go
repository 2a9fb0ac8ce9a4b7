package rates

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ozledger/taxengine/internal/domain"
)

// ParseConfig parses a YAML rate table. Tables loaded this way count as live
// data unless they declare their own provenance.
func ParseConfig(data []byte) (*domain.RateConfig, error) {
	var cfg domain.RateConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rate table: %w", err)
	}
	if len(cfg.Jurisdictions) == 0 && len(cfg.Superannuation.BaseCaps) == 0 {
		return nil, fmt.Errorf("rate table is empty")
	}
	if cfg.Source == "" {
		cfg.Source = domain.RateSourceLive
		cfg.Confidence = domain.ConfidenceHigh
	}
	return &cfg, nil
}
