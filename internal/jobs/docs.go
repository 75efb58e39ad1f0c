// Package jobs provides scheduled background tasks for the scan workflow service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds field enabled) and
// fan their work out through the bounded worker pool in internal/pkg/worker.
//
// # Available Jobs
//
// ProgressReconciliationJob lists every pending and in-production order across
// tenants and recomputes its stored progress from the scan records. The scan
// path already recomputes on every accepted scan; the job heals orders whose
// last recompute lost to concurrent writers or whose template changed.
//
// # Usage
//
//	job := jobs.NewProgressReconciliationJob(orders, recomputeHandler, pool, cfg.ReconcileSchedule, logger)
//	jobManager := jobs.NewJobManager(job)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failures for a single order are logged at Error and counted in the RunReport;
// they never stop the pass. A job that fails to start stops the ones already running.
package jobs
