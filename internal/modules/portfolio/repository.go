package portfolio

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aristath/reservestress/internal/database"
	"github.com/aristath/reservestress/internal/domain"
	"github.com/rs/zerolog"
)

// ImportRecord describes one completed import
type ImportRecord struct {
	Source        string    `json:"source"`
	HoldingsCount int       `json:"holdings_count"`
	TotalValue    float64   `json:"total_value"`
	ImportedAt    time.Time `json:"imported_at"`
}

// HoldingRepository stores the current holdings in portfolio.db
type HoldingRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *sql.DB, log zerolog.Logger) *HoldingRepository {
	return &HoldingRepository{
		db:  db,
		log: log.With().Str("repo", "holding").Logger(),
	}
}

// GetAll returns the holdings in import order
func (r *HoldingRepository) GetAll(ctx context.Context) (domain.Portfolio, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, institution, asset_class, amount, liquidity_days
		FROM holdings
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	holdings := domain.Portfolio{}
	for rows.Next() {
		var h domain.Holding
		var class string
		if err := rows.Scan(&h.Name, &h.Institution, &class, &h.Amount, &h.LiquidityDays); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		h.AssetClass = domain.AssetClass(class)
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// Count returns the number of stored holdings
func (r *HoldingRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM holdings").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count holdings: %w", err)
	}
	return n, nil
}

// ReplaceAll swaps the stored holdings for a new set and records the import
func (r *HoldingRepository) ReplaceAll(ctx context.Context, holdings domain.Portfolio, source string) error {
	now := time.Now().Unix()

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM holdings"); err != nil {
			return fmt.Errorf("failed to clear holdings: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO holdings (name, institution, asset_class, amount, liquidity_days, imported_at)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, h := range holdings {
			if _, err := stmt.ExecContext(ctx, h.Name, h.Institution, string(h.AssetClass), h.Amount, h.LiquidityDays, now); err != nil {
				return fmt.Errorf("failed to insert holding %q: %w", h.Name, err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO imports (source, holdings_count, total_value, imported_at)
			VALUES (?, ?, ?, ?)`,
			source, len(holdings), holdings.TotalValue(), now)
		if err != nil {
			return fmt.Errorf("failed to record import: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.log.Info().
		Str("source", source).
		Int("holdings", len(holdings)).
		Float64("total_value", holdings.TotalValue()).
		Msg("Replaced holdings")
	return nil
}

// LastImport returns the most recent import, or nil when nothing was imported
func (r *HoldingRepository) LastImport(ctx context.Context) (*ImportRecord, error) {
	var rec ImportRecord
	var importedAt int64
	err := r.db.QueryRowContext(ctx, `
		SELECT source, holdings_count, total_value, imported_at
		FROM imports
		ORDER BY id DESC
		LIMIT 1`).Scan(&rec.Source, &rec.HoldingsCount, &rec.TotalValue, &importedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last import: %w", err)
	}
	rec.ImportedAt = time.Unix(importedAt, 0).UTC()
	return &rec, nil
}
