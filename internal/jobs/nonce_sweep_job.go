package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// NonceSweeper drops expired unredeemed access grants.
type NonceSweeper interface {
	SweepNonces(now time.Time) int
}

// NonceSweepJob purges expired POD access nonces every minute. The grants
// live in memory, so the sweep only bounds memory use; an expired nonce
// already fails redemption.
type NonceSweepJob struct {
	sweeper NonceSweeper
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewNonceSweepJob creates the nonce sweep.
func NewNonceSweepJob(sweeper NonceSweeper, logger *slog.Logger) *NonceSweepJob {
	return &NonceSweepJob{
		sweeper: sweeper,
		cron:    cron.New(),
		logger:  logger.With("component", "nonce_sweep_job"),
	}
}

// Start schedules the sweep to run every minute.
func (j *NonceSweepJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		removed := j.sweeper.SweepNonces(time.Now().UTC())
		if removed > 0 {
			j.logger.InfoContext(context.Background(), "Purged expired access nonces", "count", removed)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Nonce sweep job started (running every minute)")
	return nil
}

// Stop stops the nonce sweep job.
func (j *NonceSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Nonce sweep job stopped")
}
