package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// SweepSchedule runs the sweep at the top of every minute.
const SweepSchedule = "0 * * * * *"

// Sweeper drops expired limiter state.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type RateLimitSweepJob struct {
	sweeper Sweeper
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewRateLimitSweepJob(sweeper Sweeper, logger *slog.Logger) *RateLimitSweepJob {
	return &RateLimitSweepJob{
		sweeper: sweeper,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "rate_limit_sweep_job"),
	}
}

func (j *RateLimitSweepJob) Start() error {
	if _, err := j.cron.AddFunc(SweepSchedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Rate limit sweep job started", "schedule", SweepSchedule)
	return nil
}

func (j *RateLimitSweepJob) run() {
	ctx := context.Background()

	removed, err := j.sweeper.Sweep(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Rate limit sweep failed", "error", err)
		return
	}
	if removed > 0 {
		j.logger.DebugContext(ctx, "Rate limit windows swept", "removed", removed)
	}
}

func (j *RateLimitSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Rate limit sweep job stopped")
}
