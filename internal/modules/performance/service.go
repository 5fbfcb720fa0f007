package performance

import (
	"context"
	"fmt"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/rs/zerolog"
)

// Service analyzes the stored portfolio
type Service struct {
	source   domain.PortfolioSource
	analyzer *Analyzer
	log      zerolog.Logger
}

// NewService creates a new performance service
func NewService(source domain.PortfolioSource, analyzer *Analyzer, log zerolog.Logger) *Service {
	return &Service{
		source:   source,
		analyzer: analyzer,
		log:      log.With().Str("service", "performance").Logger(),
	}
}

// Report analyzes the current holdings
func (s *Service) Report(ctx context.Context) (*Report, error) {
	portfolio, err := s.source.Holdings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	report, err := s.analyzer.Analyze(ctx, portfolio)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Int("measured", len(report.AssetClasses)).
		Int("skipped", len(report.Skipped)).
		Msg("Performance report generated")
	return report, nil
}
