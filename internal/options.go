package internal

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/pdfmail/pkg/cookie"
	"github.com/dmitrymomot/pdfmail/pkg/job"
)

// Option configures the App.
type Option func(*App)

// WithMiddleware adds global middleware, applied in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers route handlers.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithMount attaches a plain http.Handler, e.g. the metrics endpoint.
// Mounted handlers bypass App middleware.
func WithMount(pattern string, h http.Handler) Option {
	return func(a *App) {
		if pattern != "" && h != nil {
			a.mounts = append(a.mounts, mount{handler: h, pattern: pattern})
		}
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks enables /health/live and /health/ready.
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieManager enables flash messages.
func WithCookieManager(m *cookie.Manager) Option {
	return func(a *App) {
		a.cookieManager = m
	}
}

// WithJobs starts m together with the server and stops it on shutdown.
func WithJobs(m *job.Manager) Option {
	return func(a *App) {
		a.jobs = m
	}
}
