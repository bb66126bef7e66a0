package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"hatid/internal/core/application/usecases/commands"
	"hatid/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	assignmentDispatchJob *AssignmentDispatchJob
	slaMonitorJob         *SLAMonitorJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	assignHandler *commands.AssignRestaurantCommandHandler,
	sweepHandler commands.RunSLAChecksCommandHandler,
	orders ports.OrderRepository,
	gracePeriod time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		assignmentDispatchJob: NewAssignmentDispatchJob(assignHandler, orders, gracePeriod, logger),
		slaMonitorJob:         NewSLAMonitorJob(sweepHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.assignmentDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start assignment dispatch job: %w", err)
	}

	if err := jm.slaMonitorJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.assignmentDispatchJob.Stop()
		return fmt.Errorf("failed to start sla monitor job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.slaMonitorJob.Stop()
	jm.assignmentDispatchJob.Stop()
}
