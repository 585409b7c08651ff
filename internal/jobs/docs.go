// Package jobs provides scheduled background tasks for the fulfilment core.
//
// Jobs are built on github.com/robfig/cron/v3 with second-resolution specs.
//
// # Available Jobs
//
// 1. DriverAssignmentJob - sweeps orders in pending, refill_requested, return_requested and
// refill_in_store that still have no driver and runs the geofenced dispatcher on each
// 2. MirrorHeartbeatJob - pulls finance staff edits from the payment sheet, then rebuilds both
// sheet views from the ledger
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewDriverAssignmentJob(&assignPendingHandler, "*/10 * * * * *", 50, logger),
//		jobs.NewMirrorHeartbeatJob(mirrorService, syncLock, "0 */5 * * * *", 2*time.Minute, logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A sweep that finds no driver for an order is not an error, the order waits for the next sweep
// - Mirror failures are logged and retried on the next heartbeat, never surfaced to callers
// - Overlapping heartbeats are skipped, both within the process and across replicas
// - Failed job starts will stop any already running jobs
package jobs
