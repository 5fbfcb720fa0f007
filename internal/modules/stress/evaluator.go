package stress

import (
	"slices"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/aristath/reservestress/internal/evaluation/workers"
	"github.com/rs/zerolog"
)

// Evaluator runs the engine, aggregator and insight pipeline against an
// immutable configuration.
type Evaluator struct {
	cfg  Config
	pool *workers.WorkerPool
	log  zerolog.Logger
}

// NewEvaluator creates an evaluator. A nil pool evaluates scenarios sequentially.
func NewEvaluator(cfg Config, pool *workers.WorkerPool, log zerolog.Logger) *Evaluator {
	if cfg.Profiles == nil {
		cfg.Profiles = DefaultProfiles()
	}
	return &Evaluator{
		cfg:  cfg,
		pool: pool,
		log:  log.With().Str("component", "stress_evaluator").Logger(),
	}
}

// Config returns the evaluator configuration
func (e *Evaluator) Config() Config {
	return e.cfg
}

// Evaluate stresses one portfolio under one parameter set
func (e *Evaluator) Evaluate(portfolio domain.Portfolio, params Parameters) Result {
	e.warnUnprofiled(portfolio)

	original := portfolio.Clone()
	stressed, withdrawals := Apply(original, params, e.cfg)

	result := Aggregate(original, stressed, params, e.cfg)
	result.Withdrawals = withdrawals
	result.Insights = GenerateInsights(result, e.cfg)
	return result
}

// EvaluateScenarios evaluates every scenario against the same portfolio.
// Scenarios are independent and run in parallel; results keep input order.
func (e *Evaluator) EvaluateScenarios(portfolio domain.Portfolio, scenarios ScenarioSet) []ScenarioResult {
	return workers.Map(e.pool, scenarios, func(s Scenario) ScenarioResult {
		return ScenarioResult{Name: s.Name, Result: e.Evaluate(portfolio, s.Parameters)}
	})
}

func (e *Evaluator) warnUnprofiled(portfolio domain.Portfolio) {
	seen := make(map[domain.AssetClass]bool)
	for _, h := range portfolio {
		if seen[h.AssetClass] {
			continue
		}
		seen[h.AssetClass] = true
		if _, ok := e.cfg.Profiles.Lookup(h.AssetClass); ok {
			continue
		}
		if slices.Contains(domain.KnownAssetClasses, h.AssetClass) {
			e.log.Warn().
				Str("asset_class", string(h.AssetClass)).
				Msg("Risk profile removed from configuration, holding passes through unstressed")
			continue
		}
		e.log.Warn().
			Str("asset_class", string(h.AssetClass)).
			Msg("Unknown asset class, holding passes through unstressed")
	}
}
