package stress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrRunNotFound is returned when a run id does not exist
var ErrRunNotFound = errors.New("stress run not found")

// RunKind distinguishes single evaluations from scenario comparisons
type RunKind string

const (
	RunKindEvaluation RunKind = "evaluation"
	RunKindScenarios  RunKind = "scenarios"
)

// Run is one persisted evaluation
type Run struct {
	ID             string           `json:"id"`
	Kind           RunKind          `json:"kind"`
	CreatedAt      time.Time        `json:"created_at"`
	PortfolioValue float64          `json:"portfolio_value"`
	Results        []ScenarioResult `json:"results"`
}

// RunSummary is a run without its results
type RunSummary struct {
	ID             string    `json:"id"`
	Kind           RunKind   `json:"kind"`
	CreatedAt      time.Time `json:"created_at"`
	PortfolioValue float64   `json:"portfolio_value"`
	ScenarioCount  int       `json:"scenario_count"`
}

// RunRepository persists runs in stress.db
type RunRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB, log zerolog.Logger) *RunRepository {
	return &RunRepository{
		db:  db,
		log: log.With().Str("repo", "stress_run").Logger(),
	}
}

// Save stores the results as a new run and returns it with its id assigned
func (r *RunRepository) Save(ctx context.Context, kind RunKind, portfolioValue float64, results []ScenarioResult) (*Run, error) {
	run := &Run{
		ID:             uuid.New().String(),
		Kind:           kind,
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
		PortfolioValue: portfolioValue,
		Results:        results,
	}

	payload, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run results: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO stress_runs (id, kind, scenario_count, portfolio_value, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, string(kind), len(results), portfolioValue, string(payload), run.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert stress run: %w", err)
	}

	r.log.Debug().Str("run_id", run.ID).Str("kind", string(kind)).Int("scenarios", len(results)).Msg("Saved stress run")
	return run, nil
}

// Get returns a run by id
func (r *RunRepository) Get(ctx context.Context, id string) (*Run, error) {
	var (
		run       Run
		kind      string
		payload   string
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, kind, portfolio_value, payload, created_at
		FROM stress_runs
		WHERE id = ?`, id).Scan(&run.ID, &kind, &run.PortfolioValue, &payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stress run: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &run.Results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stress run %s: %w", id, err)
	}
	run.Kind = RunKind(kind)
	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &run, nil
}

// List returns the most recent runs first
func (r *RunRepository) List(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, portfolio_value, scenario_count, created_at
		FROM stress_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stress runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var s RunSummary
		var kind string
		var createdAt int64
		if err := rows.Scan(&s.ID, &kind, &s.PortfolioValue, &s.ScenarioCount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan stress run: %w", err)
		}
		s.Kind = RunKind(kind)
		s.CreatedAt = time.Unix(createdAt, 0).UTC()
		runs = append(runs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stress runs: %w", err)
	}
	return runs, nil
}
