package jobs

import (
	"context"
	"log/slog"

	"gasdelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultAssignmentBatch caps how many waiting orders one sweep looks at.
const DefaultAssignmentBatch = 50

// DriverAssigner sweeps orders that are still waiting for a driver.
type DriverAssigner interface {
	Handle(ctx context.Context, cmd commands.AssignPendingOrdersCommand) (commands.AssignPendingOrdersResult, error)
}

// DriverAssignmentJob retries dispatch for orders nobody could take when they were created or
// when their refill or return leg began.
type DriverAssignmentJob struct {
	assigner DriverAssigner
	spec     string
	batch    int
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewDriverAssignmentJob(assigner DriverAssigner, spec string, batch int, logger *slog.Logger) *DriverAssignmentJob {
	if batch <= 0 {
		batch = DefaultAssignmentBatch
	}
	return &DriverAssignmentJob{
		assigner: assigner,
		spec:     spec,
		batch:    batch,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "driver_assignment_job"),
	}
}

func (j *DriverAssignmentJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Driver assignment job started", "spec", j.spec)
	return nil
}

// RunOnce performs a single sweep.
func (j *DriverAssignmentJob) RunOnce(ctx context.Context) {
	cmd, err := commands.NewAssignPendingOrdersCommand(j.batch)
	if err != nil {
		j.logger.ErrorContext(ctx, "Driver assignment job misconfigured", "error", err)
		return
	}

	res, err := j.assigner.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Driver assignment job failed", "error", err)
		return
	}
	if res.Assigned > 0 || res.Failed > 0 {
		j.logger.InfoContext(ctx, "Driver assignment sweep",
			"scanned", res.Scanned, "assigned", res.Assigned, "unassigned", res.Unassigned, "failed", res.Failed)
	}
}

// Stop waits for a running sweep to finish.
func (j *DriverAssignmentJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Driver assignment job stopped")
}
