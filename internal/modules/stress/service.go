package stress

import (
	"context"
	"fmt"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/aristath/reservestress/internal/events"
	"github.com/rs/zerolog"
)

// Service evaluates the stored portfolio and records every run
type Service struct {
	source    domain.PortfolioSource
	evaluator *Evaluator
	runs      *RunRepository
	bus       *events.Bus
	log       zerolog.Logger
}

// NewService creates a new stress service. bus may be nil.
func NewService(source domain.PortfolioSource, evaluator *Evaluator, runs *RunRepository, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		source:    source,
		evaluator: evaluator,
		runs:      runs,
		bus:       bus,
		log:       log.With().Str("service", "stress").Logger(),
	}
}

// Config returns the evaluator configuration
func (s *Service) Config() Config {
	return s.evaluator.Config()
}

// Evaluate stresses the current portfolio under params and saves the run
func (s *Service) Evaluate(ctx context.Context, params Parameters) (*Run, error) {
	portfolio, err := s.source.Holdings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	result := s.evaluator.Evaluate(portfolio, params)
	run, err := s.runs.Save(ctx, RunKindEvaluation, result.OriginalValue, []ScenarioResult{
		{Name: CurrentScenarioName, Result: result},
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("run_id", run.ID).
		Float64("original_value", result.OriginalValue).
		Float64("stressed_value", result.StressedValue).
		Float64("decline_pct", result.DeclinePct).
		Bool("volatility_breach", result.VolatilityBreach).
		Bool("liquidity_breach", result.LiquidityBreach).
		Msg("Stress evaluation completed")

	if s.bus != nil {
		s.bus.Emit("stress", &events.StressEvaluatedData{
			RunID:            run.ID,
			StressedValue:    result.StressedValue,
			DeclinePct:       result.DeclinePct,
			VolatilityBreach: result.VolatilityBreach,
			LiquidityBreach:  result.LiquidityBreach,
		})
	}
	return run, nil
}

// CompareScenarios evaluates the custom parameters followed by every preset
func (s *Service) CompareScenarios(ctx context.Context, custom Parameters) (*Run, error) {
	portfolio, err := s.source.Holdings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	set := DefaultScenarioSet(custom)
	results := s.evaluator.EvaluateScenarios(portfolio, set)

	run, err := s.runs.Save(ctx, RunKindScenarios, portfolio.TotalValue(), results)
	if err != nil {
		return nil, err
	}

	breaches := 0
	for _, r := range results {
		if r.Result.VolatilityBreach || r.Result.LiquidityBreach {
			breaches++
		}
	}

	s.log.Info().
		Str("run_id", run.ID).
		Int("scenarios", len(results)).
		Int("breaches", breaches).
		Msg("Scenario comparison completed")

	if s.bus != nil {
		s.bus.Emit("stress", &events.ScenariosEvaluatedData{
			RunID:     run.ID,
			Scenarios: set.Names(),
			Breaches:  breaches,
		})
	}
	return run, nil
}

// Run returns a saved run
func (s *Service) Run(ctx context.Context, id string) (*Run, error) {
	return s.runs.Get(ctx, id)
}

// Runs lists recent runs
func (s *Service) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	return s.runs.List(ctx, limit)
}
