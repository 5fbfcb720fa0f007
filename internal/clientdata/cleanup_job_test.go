package clientdata

import (
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupJobName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	job := NewCleanupJob(NewRepository(db), CleanupGrace, zerolog.Nop())
	assert.Equal(t, "cache_cleanup", job.Name())
}

func TestCleanupJobRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	require.NoError(t, repo.Store(TableMarketSnapshot, "expired", sampleRates(), -time.Hour))
	require.NoError(t, repo.Store(TableMarketSnapshot, "fresh", sampleRates(), time.Hour))

	job := NewCleanupJob(repo, 0, zerolog.Nop())
	require.NoError(t, job.Run())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM market_snapshot").Scan(&count))
	assert.Equal(t, 1, count)

	// A second run has nothing left to delete
	require.NoError(t, job.Run())
}

func TestCleanupJobRun_EmptyTables(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	job := NewCleanupJob(NewRepository(db), CleanupGrace, zerolog.Nop())
	assert.NoError(t, job.Run())
}

func TestDays(t *testing.T) {
	assert.Equal(t, 7, Days(TTLMarketSnapshot))
	assert.Equal(t, 14, Days(CleanupGrace))
	assert.Equal(t, 0, Days(23*time.Hour))
}
