package stress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aristath/reservestress/internal/database"
	"github.com/aristath/reservestress/internal/events"
	testingpkg "github.com/aristath/reservestress/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, source *testingpkg.MockPortfolioSource, bus *events.Bus) *Service {
	t.Helper()
	db, cleanup := testingpkg.NewTestDB(t, database.NameStress)
	t.Cleanup(cleanup)

	runs := NewRunRepository(db.Conn(), zerolog.Nop())
	return NewService(source, newTestEvaluator(DefaultConfig()), runs, bus, zerolog.Nop())
}

func TestService_EvaluatePersistsRun(t *testing.T) {
	bus := events.NewBus(zerolog.Nop())
	ch, unsub := bus.Subscribe()
	defer unsub()

	svc := newTestService(t, testingpkg.NewMockPortfolioSource(testingpkg.NewHoldingFixtures()), bus)
	ctx := context.Background()
	params := PresetScenarios()[2].Parameters

	run, err := svc.Evaluate(ctx, params)
	require.NoError(t, err)
	require.Len(t, run.Results, 1)
	assert.Equal(t, RunKindEvaluation, run.Kind)
	assert.Equal(t, 1_200_000.0, run.PortfolioValue)

	loaded, err := svc.Run(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, run.CreatedAt, loaded.CreatedAt)
	assert.Equal(t, run.Results, loaded.Results)

	select {
	case e := <-ch:
		assert.Equal(t, events.StressEvaluated, e.Type)
		data := e.Data.(*events.StressEvaluatedData)
		assert.Equal(t, run.ID, data.RunID)
	case <-time.After(time.Second):
		t.Fatal("no evaluation event")
	}
}

func TestService_CompareScenarios(t *testing.T) {
	svc := newTestService(t, testingpkg.NewMockPortfolioSource(testingpkg.NewHoldingFixtures()), nil)
	ctx := context.Background()

	run, err := svc.CompareScenarios(ctx, DefaultParameters())
	require.NoError(t, err)

	names := make([]string, len(run.Results))
	for i, r := range run.Results {
		names[i] = r.Name
	}
	assert.Equal(t, DefaultScenarioSet(DefaultParameters()).Names(), names)

	runs, err := svc.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, RunKindScenarios, runs[0].Kind)
	assert.Equal(t, 6, runs[0].ScenarioCount)
}

func TestService_SourceError(t *testing.T) {
	source := testingpkg.NewMockPortfolioSource(nil)
	source.SetError(errors.New("disk on fire"))
	svc := newTestService(t, source, nil)

	_, err := svc.Evaluate(context.Background(), DefaultParameters())
	assert.ErrorContains(t, err, "disk on fire")

	_, err = svc.CompareScenarios(context.Background(), DefaultParameters())
	assert.ErrorContains(t, err, "disk on fire")
}

func TestRunRepository_GetUnknown(t *testing.T) {
	svc := newTestService(t, testingpkg.NewMockPortfolioSource(nil), nil)

	_, err := svc.Run(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunRepository_ListNewestFirstWithLimit(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, database.NameStress)
	defer cleanup()
	repo := NewRunRepository(db.Conn(), zerolog.Nop())
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		run, err := repo.Save(ctx, RunKindEvaluation, float64(i), nil)
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	runs, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)

	empty, err := NewRunRepository(db.Conn(), zerolog.Nop()).List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, empty, 3)
}
