// Package job runs background tasks on River, a Postgres-native queue.
//
// Tasks are plain structs with Name() and Handle(ctx, payload) methods and are
// registered with [WithTask]. Periodic tasks add Schedule() returning a five
// field cron expression and are registered with [WithScheduledTask].
//
//	type Remover struct{ store storage.Storage }
//
//	func (r *Remover) Name() string { return "pdf_remover" }
//
//	func (r *Remover) Handle(ctx context.Context, rec Record) error {
//	    return r.store.Delete(ctx, rec.URI)
//	}
//
//	manager, err := job.NewManager(pool,
//	    job.WithTask(remover),
//	    job.WithQueue("pdf_remover", 4),
//	)
//
// Producers address a named queue:
//
//	err := manager.Queue("pdf_remover").Enqueue(ctx, "pdf_remover", Record{URI: uri},
//	    job.ScheduledIn(time.Minute),
//	    job.MaxAttempts(5),
//	)
//
// Processes that only dispatch work use [NewEnqueuer], which creates an
// insert-only River client. River's tables must exist before either is used;
// see pkg/db for the migration entry point.
//
// A handler that returns an error is retried with River's exponential backoff
// until MaxAttempts is reached. Wrap an error with [Cancel] to stop retries
// for input that can never succeed.
package job
