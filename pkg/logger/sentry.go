package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig enables Sentry forwarding when DSN is set.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	Release     string `env:"SENTRY_RELEASE"`

	// MinLevel of slog.LevelError stops warnings from being stored as logs.
	MinLevel slog.Level
}

// newSentryHandler returns nil when no DSN is configured.
func newSentryHandler(cfg SentryConfig) (slog.Handler, error) {
	if cfg.DSN == "" {
		return nil, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		EnableLogs:  true,
	}); err != nil {
		return nil, err
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel >= slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background()), nil
}

// Flush waits up to timeout for buffered Sentry events. Safe to call when
// Sentry was never initialized.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
