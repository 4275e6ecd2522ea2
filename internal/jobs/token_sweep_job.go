package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"dispatch/internal/core/ports"
)

// TokenSweepJob periodically clears expired bearer tokens from the identity
// store. Runs hourly; expiry itself is enforced at verification time, the
// sweep just keeps the token columns clean.
type TokenSweepJob struct {
	uowFactory ports.UnitOfWorkFactory
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewTokenSweepJob creates the hourly token sweep.
func NewTokenSweepJob(uowFactory ports.UnitOfWorkFactory, logger *slog.Logger) *TokenSweepJob {
	return &TokenSweepJob{
		uowFactory: uowFactory,
		cron:       cron.New(),
		logger:     logger.With("component", "token_sweep_job"),
	}
}

// Start schedules the sweep to run at the top of every hour.
func (j *TokenSweepJob) Start() error {
	_, err := j.cron.AddFunc("@hourly", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Token sweep job started (running hourly)")
	return nil
}

// Stop stops the token sweep job.
func (j *TokenSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Token sweep job stopped")
}

func (j *TokenSweepJob) run() {
	ctx := context.Background()

	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Token sweep failed to begin transaction", "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cleared, err := uow.IdentityRepository().ClearExpiredTokens(ctx, time.Now().UTC())
	if err != nil {
		j.logger.ErrorContext(ctx, "Token sweep failed", "error", err)
		return
	}

	if err := uow.Commit(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Token sweep failed to commit", "error", err)
		return
	}

	if cleared > 0 {
		j.logger.InfoContext(ctx, "Cleared expired tokens", "count", cleared)
	}
}
