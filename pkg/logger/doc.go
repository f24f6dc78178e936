// Package logger builds the process-wide slog logger.
//
// Records are written as JSON (or text, with LOG_FORMAT=text) at LOG_LEVEL.
// Context extractors attach request-scoped attributes such as the request id:
//
//	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "email sent", slog.Int64("entity_id", id))
//
// When SENTRY_DSN is set, errors become Sentry issues and warnings are stored
// as Sentry logs. Call [Flush] before exit.
package logger
