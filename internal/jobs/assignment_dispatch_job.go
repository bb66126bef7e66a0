package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"hatid/internal/core/application/usecases/commands"
	"hatid/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// AssignmentDispatchJob launches restaurant assignment for orders whose
// post-placement grace period has elapsed. Runs every second; each eligible
// order gets its own assignment goroutine, and an in-flight set prevents a
// second launch while one is still offering the order around.
type AssignmentDispatchJob struct {
	handler     *commands.AssignRestaurantCommandHandler
	orders      ports.OrderRepository
	gracePeriod time.Duration
	cron        *cron.Cron
	logger      *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewAssignmentDispatchJob creates a job that dispatches assignment runs.
func NewAssignmentDispatchJob(
	handler *commands.AssignRestaurantCommandHandler,
	orders ports.OrderRepository,
	gracePeriod time.Duration,
	logger *slog.Logger,
) *AssignmentDispatchJob {
	return &AssignmentDispatchJob{
		handler:     handler,
		orders:      orders,
		gracePeriod: gracePeriod,
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "assignment_dispatch_job"),
		inFlight:    make(map[string]struct{}),
	}
}

// Start begins the dispatch job to run every second.
func (j *AssignmentDispatchJob) Start() error {
	j.ctx, j.cancel = context.WithCancel(context.Background())

	_, err := j.cron.AddFunc("* * * * * *", j.dispatch)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(j.ctx, "Assignment dispatch job started (running every second)",
		"grace_period", j.gracePeriod.String())
	return nil
}

// Stop stops the dispatch job and waits for in-flight assignment runs.
// Cancelling the shared context makes the runs' waits return promptly.
func (j *AssignmentDispatchJob) Stop() {
	j.cron.Stop()
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
	j.logger.InfoContext(context.Background(), "Assignment dispatch job stopped")
}

func (j *AssignmentDispatchJob) dispatch() {
	ctx := j.ctx
	cutoff := time.Now().Add(-j.gracePeriod)

	eligible, err := j.orders.GetPendingPlacedBefore(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to load assignment backlog", "error", err)
		return
	}

	for _, o := range eligible {
		key := o.ID().String()

		j.mu.Lock()
		if _, running := j.inFlight[key]; running {
			j.mu.Unlock()
			continue
		}
		j.inFlight[key] = struct{}{}
		j.mu.Unlock()

		cmd, cmdErr := commands.NewAssignRestaurantCommand(o.ID())
		if cmdErr != nil {
			j.release(key)
			j.logger.ErrorContext(ctx, "Failed to build assignment command",
				"order_id", key, "error", cmdErr)
			continue
		}

		j.wg.Add(1)
		go func() {
			defer j.wg.Done()
			defer j.release(key)

			if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
				j.logger.ErrorContext(ctx, "Assignment run failed",
					"order_id", key, "error", handleErr)
			}
		}()
	}
}

func (j *AssignmentDispatchJob) release(key string) {
	j.mu.Lock()
	delete(j.inFlight, key)
	j.mu.Unlock()
}
