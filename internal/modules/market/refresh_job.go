package market

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RefreshJob pulls a new snapshot from the upstream source on a schedule
type RefreshJob struct {
	service *Service
	timeout time.Duration
	log     zerolog.Logger
}

// NewRefreshJob creates a new market refresh job
func NewRefreshJob(service *Service, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		service: service,
		timeout: 2 * time.Minute,
		log:     log.With().Str("job", "market_data_refresh").Logger(),
	}
}

// Run fetches and records a fresh snapshot
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	snapshot, err := j.service.Refresh(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("Market data refresh failed")
		return err
	}

	j.log.Info().Int("indices", len(snapshot.Indices)).Msg("Market data refresh completed")
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *RefreshJob) Name() string {
	return "market_data_refresh"
}
