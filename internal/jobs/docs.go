// Package jobs provides scheduled background tasks for the dispatch
// service, built on github.com/robfig/cron/v3.
//
// Two sweeps run in the background:
//
//  1. TokenSweepJob - hourly; nulls out expired bearer-token columns so the
//     verification scan only ever walks live tokens.
//  2. NonceSweepJob - every minute; drops expired unredeemed POD access
//     grants.
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(uowFactory, artifactStore, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Both sweeps are repair work, not correctness requirements: expired tokens
// already fail verification and expired nonces already fail redemption. The
// jobs only keep the identity table and the grant map from accumulating
// dead entries.
package jobs
