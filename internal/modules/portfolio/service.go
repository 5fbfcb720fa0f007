package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/aristath/reservestress/internal/events"
	"github.com/rs/zerolog"
)

// Service owns the stored portfolio. It implements domain.PortfolioSource.
type Service struct {
	repo   *HoldingRepository
	loader *Loader
	bus    *events.Bus
	log    zerolog.Logger
}

// NewService creates a new portfolio service. bus may be nil.
func NewService(repo *HoldingRepository, loader *Loader, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		loader: loader,
		bus:    bus,
		log:    log.With().Str("service", "portfolio").Logger(),
	}
}

// Holdings returns the stored portfolio
func (s *Service) Holdings(ctx context.Context) (domain.Portfolio, error) {
	return s.repo.GetAll(ctx)
}

// LastImport returns the most recent import record
func (s *Service) LastImport(ctx context.Context) (*ImportRecord, error) {
	return s.repo.LastImport(ctx)
}

// Import parses a CSV document and replaces the stored holdings with it.
// Nothing is stored when any row is invalid.
func (s *Service) Import(ctx context.Context, r io.Reader, source string) (domain.Portfolio, error) {
	holdings, err := s.loader.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse portfolio from %s: %w", source, err)
	}

	if err := s.repo.ReplaceAll(ctx, holdings, source); err != nil {
		return nil, fmt.Errorf("failed to store portfolio: %w", err)
	}

	if s.bus != nil {
		s.bus.Emit("portfolio", &events.PortfolioImportedData{
			Source:     source,
			Holdings:   len(holdings),
			TotalValue: holdings.TotalValue(),
		})
	}
	return holdings, nil
}

// ImportFileIfEmpty seeds the repository from path when it holds no
// holdings. A missing file is not an error.
func (s *Service) ImportFileIfEmpty(ctx context.Context, path string) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Debug().Int("holdings", n).Msg("Portfolio already loaded, skipping seed import")
		return nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Str("path", path).Msg("Portfolio file not found, starting with an empty portfolio")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open portfolio file: %w", err)
	}
	defer f.Close()

	holdings, err := s.Import(ctx, f, path)
	if err != nil {
		return err
	}

	s.log.Info().Str("path", path).Int("holdings", len(holdings)).Msg("Seeded portfolio from file")
	return nil
}
