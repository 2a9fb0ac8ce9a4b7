// Package rates wraps the rate-source collaborator. The calculation engines
// never perform I/O themselves; this package resolves a RateConfig for them,
// retrying a live source with bounded exponential backoff and degrading to
// the compiled-in static table when the source stays unreachable.
package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ozledger/taxengine/internal/calculation"
	"github.com/ozledger/taxengine/internal/domain"
)

// Source supplies the rate table for a reporting period. Implementations may
// fail with transient errors; callers are expected to go through Resolver.
type Source interface {
	FetchCurrentRates(ctx context.Context, period string) (*domain.RateConfig, error)
}

// StaticSource serves a fixed, versioned rate table. It never fails.
type StaticSource struct {
	Config *domain.RateConfig
}

// FetchCurrentRates returns the static table regardless of period, re-marked
// with the requested period so downstream results carry the right key.
func (s *StaticSource) FetchCurrentRates(_ context.Context, period string) (*domain.RateConfig, error) {
	cfg := *s.Config
	if period != "" {
		cfg.Period = period
	}
	return &cfg, nil
}

// Resolver fetches rates from a live source with retries and falls back to a
// static table on exhaustion. The resulting config's Source and Confidence
// fields record which path produced it.
type Resolver struct {
	Live        Source
	Fallback    *StaticSource
	Log         calculation.Logger
	MaxRetries  uint64
	MaxInterval time.Duration
}

// NewResolver creates a resolver over an optional live source. A nil live
// source resolves straight to the fallback.
func NewResolver(live Source, log calculation.Logger) *Resolver {
	if log == nil {
		log = calculation.NopLogger()
	}
	return &Resolver{
		Live:        live,
		Fallback:    DefaultStatic(),
		Log:         log,
		MaxRetries:  3,
		MaxInterval: 5 * time.Second,
	}
}

// Resolve returns a usable RateConfig for the period. It never returns an
// error for source failure; unreachable live rates degrade to the fallback
// table with reduced confidence.
func (r *Resolver) Resolve(ctx context.Context, period string) (*domain.RateConfig, error) {
	if r.Live == nil {
		return r.Fallback.FetchCurrentRates(ctx, period)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = r.MaxInterval
	operation := func() (*domain.RateConfig, error) {
		return r.Live.FetchCurrentRates(ctx, period)
	}
	cfg, err := backoff.RetryWithData(operation, backoff.WithContext(backoff.WithMaxRetries(policy, r.MaxRetries), ctx))
	if err != nil {
		r.Log.Warnf("live rate fetch for %s failed after retries: %v; using static fallback", period, err)
		return r.Fallback.FetchCurrentRates(ctx, period)
	}
	if cfg == nil {
		return nil, fmt.Errorf("rate source returned no config for %s", period)
	}
	if cfg.Source == "" {
		cfg.Source = domain.RateSourceLive
	}
	if cfg.Confidence == "" {
		cfg.Confidence = domain.ConfidenceHigh
	}
	return cfg, nil
}
