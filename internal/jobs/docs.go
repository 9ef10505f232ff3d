// Package jobs provides scheduled background tasks for the fulfillment engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the dispatch engine.
//
// # Available Jobs
//
// 1. DriverDispatchJob - Runs every five seconds to assign the oldest ready order to a free driver of its branch
// 2. RateLimitSweepJob - Runs every minute to drop expired connection attempts from the in-process limiter
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewDriverDispatchJob(dispatchHandler, logger),
//		jobs.NewRateLimitSweepJob(limiter, logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - Dispatch job ignores expected business errors (no ready order, no free driver)
//   - Sweep job logs every error
//   - Failed job starts will stop any already running jobs
package jobs
