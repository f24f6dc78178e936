package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/pdfmail/internal"
	"github.com/dmitrymomot/pdfmail/internal/artifact"
	"github.com/dmitrymomot/pdfmail/internal/handlers"
	"github.com/dmitrymomot/pdfmail/middlewares"
	"github.com/dmitrymomot/pdfmail/pkg/cookie"
	"github.com/dmitrymomot/pdfmail/pkg/db"
	"github.com/dmitrymomot/pdfmail/pkg/job"
	"github.com/dmitrymomot/pdfmail/pkg/redis"
)

func newServeCommand(rt *runtimeState) *cobra.Command {
	var withWorkers bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: "Run the HTTP server. By default the disposal workers run in the same\n" +
			"process; pass --workers=false to only enqueue and run `pdfmail worker` separately.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), rt, withWorkers)
		},
	}
	cmd.Flags().BoolVar(&withWorkers, "workers", true, "process disposal jobs in this process")
	return cmd
}

func serve(ctx context.Context, rt *runtimeState, withWorkers bool) (err error) {
	d, err := openDeps(ctx, rt)
	if err != nil {
		return err
	}
	// Closed by the shutdown hook once the server runs; on early return here.
	running := false
	defer func() {
		if !running {
			err = errors.Join(err, d.Close(context.Background()))
		}
	}()

	var (
		queue   *job.Queue
		appOpts []internal.Option
	)
	if withWorkers {
		if err := d.startJobs(); err != nil {
			return err
		}
		queue = d.jobs.Queue(d.cfg.Disposal.Queue)
		appOpts = append(appOpts, internal.WithJobs(d.jobs))
	} else {
		enq, err := job.NewEnqueuer(d.pool, job.WithEnqueuerLogger(d.logger))
		if err != nil {
			return err
		}
		queue = enq.Queue(d.cfg.Disposal.Queue)
	}

	mailer, err := d.artifactMailer(queue)
	if err != nil {
		return err
	}

	cookies, err := cookie.New(d.cfg.Cookie)
	if err != nil {
		return err
	}

	health := []internal.HealthOption{
		internal.WithReadinessCheck("postgres", db.Healthcheck(d.pool)),
	}
	if d.redis != nil {
		health = append(health, internal.WithReadinessCheck("redis", redis.Healthcheck(d.redis)))
	}
	if d.jobs != nil {
		health = append(health, internal.WithReadinessCheck("jobs", job.Healthcheck(d.jobs)))
	}

	appOpts = append(appOpts,
		internal.WithLogger(d.logger),
		internal.WithCookieManager(cookies),
		internal.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.Timeout(d.cfg.HTTP.RequestTimeout),
		),
		internal.WithErrorHandler(middlewares.ErrorHandler(internal.DefaultErrorHandler)),
		internal.WithHealthChecks(health...),
		internal.WithMount(d.cfg.HTTP.MetricsPath, d.metrics.Handler()),
		internal.WithHandlers(handlers.NewContent(d.contentReader(), mailer)),
	)
	app := internal.New(appOpts...)

	d.logger.Info("starting pdfmail",
		slog.String("addr", d.cfg.HTTP.Addr),
		slog.Bool("workers", withWorkers),
		slog.String("mailer", d.cfg.Mailer.Provider),
		slog.String("storage", string(d.cfg.Storage.Driver)))

	running = true
	return app.Run(d.cfg.HTTP.Addr,
		internal.WithContext(ctx),
		internal.Logger(d.logger),
		internal.ShutdownTimeout(d.cfg.HTTP.ShutdownTimeout),
		internal.ShutdownHook(d.Close),
	)
}

var _ artifact.Queue = (*job.Queue)(nil)
