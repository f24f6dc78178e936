package internal

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/pdfmail/pkg/cookie"
	"github.com/dmitrymomot/pdfmail/pkg/health"
	"github.com/dmitrymomot/pdfmail/pkg/job"
	"github.com/dmitrymomot/pdfmail/pkg/logger"
)

const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 60 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App is the HTTP application.
type App struct {
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	cookieManager           *cookie.Manager
	jobs                    *job.Manager
	middlewares             []Middleware
	handlers                []Handler
	mounts                  []mount
}

type mount struct {
	handler http.Handler
	pattern string
}

// New creates an App and registers its routes.
func New(opts ...Option) *App {
	a := &App{
		router:       chi.NewRouter(),
		logger:       logger.NewNope(),
		errorHandler: DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.setupRoutes()
	return a
}

// Router returns the underlying chi router.
func (a *App) Router() chi.Router {
	return a.router
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run starts the server and blocks until shutdown.
// Job workers configured with WithJobs start before the listener accepts
// requests and stop after the server has drained.
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	startupHooks := cfg.startupHooks
	shutdownHooks := cfg.shutdownHooks

	if a.jobs != nil {
		startupHooks = append([]func(context.Context) error{a.jobs.StartFunc()}, startupHooks...)
		shutdownHooks = append([]func(context.Context) error{a.jobs.Shutdown()}, shutdownHooks...)
	}

	log := cfg.logger
	if log == nil {
		log = a.logger
	}

	return runServer(runtimeConfig{
		handler:         a,
		address:         addr,
		logger:          log,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    startupHooks,
		shutdownHooks:   shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

func (a *App) setupRoutes() {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	// Mounts and health endpoints sit outside the middleware chain.
	for _, m := range a.mounts {
		a.router.Handle(m.pattern, m.handler)
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}

	r := &routerAdapter{router: a.router, app: a, middleware: slices.Clone(a.middlewares)}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

func (a *App) handleError(c Context, err error) {
	if c.Written() {
		a.logger.WarnContext(c, "error after response was written", slog.Any("error", err))
		return
	}
	if a.errorHandler == nil {
		http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if herr := a.errorHandler(c, err); herr != nil {
		a.logger.ErrorContext(c, "error handler failed", slog.Any("error", herr))
	}
}

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health endpoints.
type HealthOption func(*healthConfig)

func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check. Nil checks are ignored.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if fn == nil {
			return
		}
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
