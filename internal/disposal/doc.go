// Package disposal removes rendered artifacts once they have been mailed.
//
// The artifact mailer enqueues a Record on the disposal queue after a
// successful send. Remover consumes those records and deletes the file;
// deletion is idempotent, so duplicate deliveries are harmless. Sweeper is
// a periodic task that removes artifacts which never got a record, for
// example because the mail could not be sent.
//
// Both tasks are registered with the job manager:
//
//	job.NewManager(pool,
//		job.WithTask(disposal.NewRemover(store)),
//		job.WithScheduledTask(disposal.NewSweeper(store, cfg, outputDir)),
//		job.WithQueue(cfg.Queue, cfg.Workers),
//	)
package disposal
