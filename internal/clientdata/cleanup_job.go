package clientdata

import (
	"time"

	"github.com/rs/zerolog"
)

// CleanupJob purges cache entries that expired more than grace ago.
// Entries inside the grace window stay readable as stale fallbacks.
type CleanupJob struct {
	repo  *Repository
	grace time.Duration
	log   zerolog.Logger
}

// NewCleanupJob creates the daily cache purge job
func NewCleanupJob(repo *Repository, grace time.Duration, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		repo:  repo,
		grace: grace,
		log:   log.With().Str("job", "cache_cleanup").Logger(),
	}
}

// Run purges every cache table, in AllTables order
func (j *CleanupJob) Run() error {
	purged, err := j.repo.DeleteAllExpired(j.grace)
	if err != nil {
		j.log.Error().Err(err).Dur("grace", j.grace).Msg("Cache cleanup failed")
		return err
	}

	var total int64
	for _, table := range AllTables {
		if n := purged[table]; n > 0 {
			j.log.Debug().Str("table", table).Int64("purged", n).Msg("Purged stale cache entries")
			total += n
		}
	}
	j.log.Info().Int64("purged", total).Dur("grace", j.grace).Msg("Cache cleanup completed")
	return nil
}

// Name returns the job name
func (j *CleanupJob) Name() string {
	return "cache_cleanup"
}
