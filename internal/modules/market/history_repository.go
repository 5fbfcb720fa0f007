package market

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/reservestress/internal/database"
	"github.com/aristath/reservestress/internal/domain"
	"github.com/rs/zerolog"
)

// HistoryRepository stores daily benchmark series in history.db
type HistoryRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, log zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:  db,
		log: log.With().Str("repo", "market_history").Logger(),
	}
}

// UpsertIndexPrices records daily levels for symbol. A later value for the
// same day replaces the earlier one.
func (r *HistoryRepository) UpsertIndexPrices(ctx context.Context, symbol string, points []domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO index_prices (symbol, date, value) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare index insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range points {
			if _, err := stmt.ExecContext(ctx, symbol, dateKey(p.Date), p.Value); err != nil {
				return fmt.Errorf("failed to store %s price for %s: %w", symbol, dateKey(p.Date), err)
			}
		}
		return nil
	})
}

// UpsertRates records daily SORA and fixed deposit levels
func (r *HistoryRepository) UpsertRates(ctx context.Context, points []domain.RatePoint) error {
	if len(points) == 0 {
		return nil
	}
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO rate_history (date, sora, fd) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare rate insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range points {
			if _, err := stmt.ExecContext(ctx, dateKey(p.Date), p.SORA, p.FD); err != nil {
				return fmt.Errorf("failed to store rates for %s: %w", dateKey(p.Date), err)
			}
		}
		return nil
	})
}

// IndexSeries returns the levels of symbol on or after since, oldest first
func (r *HistoryRepository) IndexSeries(ctx context.Context, symbol string, since time.Time) ([]domain.PricePoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, value FROM index_prices WHERE symbol = ? AND date >= ? ORDER BY date ASC`,
		symbol, dateKey(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s history: %w", symbol, err)
	}
	defer rows.Close()

	points := []domain.PricePoint{}
	for rows.Next() {
		var date string
		var p domain.PricePoint
		if err := rows.Scan(&date, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan %s history: %w", symbol, err)
		}
		if p.Date, err = time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("invalid date %q in %s history: %w", date, symbol, err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// RateSeries returns rate observations on or after since, oldest first
func (r *HistoryRepository) RateSeries(ctx context.Context, since time.Time) ([]domain.RatePoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, sora, fd FROM rate_history WHERE date >= ? ORDER BY date ASC`, dateKey(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query rate history: %w", err)
	}
	defer rows.Close()

	points := []domain.RatePoint{}
	for rows.Next() {
		var date string
		var p domain.RatePoint
		if err := rows.Scan(&date, &p.SORA, &p.FD); err != nil {
			return nil, fmt.Errorf("failed to scan rate history: %w", err)
		}
		if p.Date, err = time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("invalid date %q in rate history: %w", date, err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// RecordSnapshot appends everything a snapshot carries: each index history
// plus its current level, and the rate history plus today's rates.
func (r *HistoryRepository) RecordSnapshot(ctx context.Context, s *domain.MarketSnapshot) error {
	for _, name := range sortedKeys(s.Indices) {
		index := s.Indices[name]
		points := append(append([]domain.PricePoint{}, index.History...),
			domain.PricePoint{Date: s.LastUpdated, Value: index.CurrentPrice})
		if err := r.UpsertIndexPrices(ctx, name, points); err != nil {
			return err
		}
	}

	rates := append(append([]domain.RatePoint{}, s.Rates.History...),
		domain.RatePoint{Date: s.LastUpdated, SORA: s.Rates.SORA, FD: s.Rates.FDAverage})
	if err := r.UpsertRates(ctx, rates); err != nil {
		return err
	}

	r.log.Debug().Int("indices", len(s.Indices)).Msg("Recorded market snapshot history")
	return nil
}
