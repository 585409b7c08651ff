package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"gasdelivery/internal/core/application/mirror"
	"gasdelivery/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const heartbeatLockName = "mirror-heartbeat"

// LedgerSync is the part of the mirror the heartbeat drives.
type LedgerSync interface {
	Reconcile(ctx context.Context) (mirror.ReconcileResult, error)
	Rebuild(ctx context.Context) error
}

// MirrorHeartbeatJob pulls staff edits from the sheet and then regenerates both views from the
// ledger, which also repairs pushes that were dropped or failed since the last beat. One sync runs
// at a time per process (inFlight) and across replicas (the shared lock).
type MirrorHeartbeatJob struct {
	ledger  LedgerSync
	lock    ports.SyncLock
	spec    string
	timeout time.Duration
	cron    *cron.Cron
	logger  *slog.Logger

	inFlight atomic.Bool
}

// NewMirrorHeartbeatJob builds the job. timeout bounds a single beat and is also the lease length.
func NewMirrorHeartbeatJob(
	ledger LedgerSync,
	lock ports.SyncLock,
	spec string,
	timeout time.Duration,
	logger *slog.Logger,
) *MirrorHeartbeatJob {
	return &MirrorHeartbeatJob{
		ledger:  ledger,
		lock:    lock,
		spec:    spec,
		timeout: timeout,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "mirror_heartbeat_job"),
	}
}

func (j *MirrorHeartbeatJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Mirror heartbeat job started", "spec", j.spec)
	return nil
}

// RunOnce performs one beat and reports whether it ran. It returns false when another beat was
// still in flight here or on another replica.
func (j *MirrorHeartbeatJob) RunOnce(ctx context.Context) bool {
	if !j.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer j.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	unlock, ok, err := j.lock.TryLock(ctx, heartbeatLockName, j.timeout)
	if err != nil {
		j.logger.ErrorContext(ctx, "Mirror heartbeat could not take the lock", "error", err)
		return false
	}
	if !ok {
		return false
	}
	defer unlock(context.WithoutCancel(ctx))

	res, err := j.ledger.Reconcile(ctx)
	if err != nil {
		// the sheet is unreachable, rebuilding would fail the same way
		j.logger.WarnContext(ctx, "Mirror pull failed, retrying next heartbeat", "error", err)
		return true
	}
	if res.Cleared > 0 || res.Failed > 0 {
		j.logger.InfoContext(ctx, "Mirror pulled staff edits",
			"seen", res.Seen, "cleared", res.Cleared, "skipped", res.Skipped, "failed", res.Failed)
	}
	if res.Failed > 0 {
		// the edits that failed to clear stay in the sheet until a later pull applies them
		j.logger.WarnContext(ctx, "Mirror rebuild skipped, staff edits not yet applied", "failed", res.Failed)
		return true
	}

	if err = j.ledger.Rebuild(ctx); err != nil {
		j.logger.WarnContext(ctx, "Mirror rebuild failed, retrying next heartbeat", "error", err)
	}
	return true
}

// Stop waits for a running beat to finish.
func (j *MirrorHeartbeatJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Mirror heartbeat job stopped")
}
