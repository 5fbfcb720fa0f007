package market

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/reservestress/internal/clientdata"
	"github.com/aristath/reservestress/internal/domain"
	"github.com/aristath/reservestress/internal/events"
	"github.com/rs/zerolog"
)

const snapshotCacheKey = "latest"

// Service serves market snapshots cache-first, falling back to stale
// cached data and finally to the built-in dataset.
type Service struct {
	fetcher Fetcher // nil when no upstream is configured
	cache   *clientdata.Repository
	history *HistoryRepository
	bus     *events.Bus
	ttl     time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// NewService creates a new market service. fetcher and bus may be nil.
func NewService(fetcher Fetcher, cache *clientdata.Repository, history *HistoryRepository, bus *events.Bus, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		history: history,
		bus:     bus,
		ttl:     ttl,
		now:     time.Now,
		log:     log.With().Str("service", "market").Logger(),
	}
}

// Snapshot returns the current market snapshot. forceRefresh skips the
// fresh-cache check and goes straight to the upstream source.
func (s *Service) Snapshot(ctx context.Context, forceRefresh bool) (*domain.MarketSnapshot, error) {
	if !forceRefresh {
		var cached domain.MarketSnapshot
		fresh, err := s.cache.GetIfFresh(clientdata.TableMarketSnapshot, snapshotCacheKey, &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("Failed to read cached market snapshot")
		} else if fresh {
			s.log.Debug().Str("source", cached.Source).Msg("Cache hit")
			return &cached, nil
		}
	}

	if s.fetcher != nil {
		snapshot, err := s.fetch(ctx)
		if err == nil {
			return snapshot, nil
		}
		s.log.Warn().Err(err).Msg("Market data fetch failed")
		if s.bus != nil {
			s.bus.EmitError("market", err, map[string]interface{}{"operation": "fetch"})
		}
	}

	if stale, ok := s.staleFromCache(); ok {
		s.log.Warn().
			Str("source", stale.Source).
			Time("last_updated", stale.LastUpdated).
			Msg("Using stale cached market snapshot")
		return stale, nil
	}

	s.log.Warn().Msg("No market data available, using fallback dataset")
	return FallbackSnapshot(s.now()), nil
}

// Refresh forces a fetch from the upstream source
func (s *Service) Refresh(ctx context.Context) (*domain.MarketSnapshot, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("no market data source configured")
	}
	return s.fetch(ctx)
}

// History returns the stored daily levels of one index
func (s *Service) History(ctx context.Context, symbol string, days int) ([]domain.PricePoint, error) {
	return s.history.IndexSeries(ctx, symbol, s.now().AddDate(0, 0, -days))
}

func (s *Service) fetch(ctx context.Context) (*domain.MarketSnapshot, error) {
	snapshot, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(snapshot); err != nil {
		return nil, err
	}
	withMetrics(snapshot)

	if err := s.cache.Store(clientdata.TableMarketSnapshot, snapshotCacheKey, snapshot, s.ttl); err != nil {
		s.log.Warn().Err(err).Msg("Failed to cache market snapshot")
	}
	if err := s.history.RecordSnapshot(ctx, snapshot); err != nil {
		s.log.Warn().Err(err).Msg("Failed to record market history")
	}

	s.log.Info().
		Str("source", snapshot.Source).
		Int("indices", len(snapshot.Indices)).
		Float64("sora", snapshot.Rates.SORA).
		Msg("Market snapshot refreshed")

	if s.bus != nil {
		s.bus.Emit("market", &events.MarketDataRefreshedData{
			Source:  snapshot.Source,
			Indices: len(snapshot.Indices),
		})
	}
	return snapshot, nil
}

func (s *Service) staleFromCache() (*domain.MarketSnapshot, bool) {
	var cached domain.MarketSnapshot
	entry, err := s.cache.Get(clientdata.TableMarketSnapshot, snapshotCacheKey, &cached)
	if err != nil || entry == nil {
		return nil, false
	}
	return &cached, true
}
