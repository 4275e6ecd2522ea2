package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	tokenSweepJob *TokenSweepJob
	nonceSweepJob *NonceSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	uowFactory ports.UnitOfWorkFactory,
	sweeper NonceSweeper,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		tokenSweepJob: NewTokenSweepJob(uowFactory, logger),
		nonceSweepJob: NewNonceSweepJob(sweeper, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.tokenSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start token sweep job: %w", err)
	}

	if err := jm.nonceSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.tokenSweepJob.Stop()
		return fmt.Errorf("failed to start nonce sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.nonceSweepJob.Stop()
	jm.tokenSweepJob.Stop()
}
