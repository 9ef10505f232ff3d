package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DispatchSchedule runs the dispatcher every five seconds.
const DispatchSchedule = "*/5 * * * * *"

type DispatchReadyOrderHandler interface {
	Handle(ctx context.Context, cmd commands.DispatchReadyOrderCommand) error
}

// DriverDispatchJob hands the oldest ready order to a free driver of its
// branch on every tick.
type DriverDispatchJob struct {
	handler DispatchReadyOrderHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewDriverDispatchJob(handler DispatchReadyOrderHandler, logger *slog.Logger) *DriverDispatchJob {
	return &DriverDispatchJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "driver_dispatch_job"),
	}
}

func (j *DriverDispatchJob) Start() error {
	if _, err := j.cron.AddFunc(DispatchSchedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Driver dispatch job started", "schedule", DispatchSchedule)
	return nil
}

func (j *DriverDispatchJob) run() {
	ctx := context.Background()

	if err := j.handler.Handle(ctx, commands.NewDispatchReadyOrderCommand()); err != nil {
		// an empty queue or a busy fleet is the normal idle state
		if !errors.Is(err, commands.ErrNoOrderFound) && !errors.Is(err, commands.ErrNoFreeDriversFound) {
			j.logger.ErrorContext(ctx, "Driver dispatch job failed", "error", err)
		}
	}
}

// Stop waits for a running tick to finish.
func (j *DriverDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Driver dispatch job stopped")
}
