package jobs

import (
	"context"
	"log/slog"
	"time"

	"hatid/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SLAMonitorJob runs the deferred check sweep. Runs every 30 seconds; the
// sweep itself is idempotent, so overlapping or missed runs only affect
// detection latency, never correctness.
type SLAMonitorJob struct {
	handler commands.RunSLAChecksCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSLAMonitorJob creates a job that sweeps the deferred check schedule.
func NewSLAMonitorJob(handler commands.RunSLAChecksCommandHandler, logger *slog.Logger) *SLAMonitorJob {
	return &SLAMonitorJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "sla_monitor_job"),
	}
}

// Start begins the sweep job to run every 30 seconds.
func (j *SLAMonitorJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewRunSLAChecksCommand(time.Now())
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build sweep command", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "SLA sweep failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "SLA monitor job started (running every 30 seconds)")
	return nil
}

// Stop stops the sweep job.
func (j *SLAMonitorJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "SLA monitor job stopped")
}
