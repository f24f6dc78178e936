package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/pdfmail/internal/artifact"
	"github.com/dmitrymomot/pdfmail/internal/config"
	"github.com/dmitrymomot/pdfmail/internal/content"
	"github.com/dmitrymomot/pdfmail/internal/disposal"
	"github.com/dmitrymomot/pdfmail/internal/metrics"
	"github.com/dmitrymomot/pdfmail/pkg/cache"
	"github.com/dmitrymomot/pdfmail/pkg/db"
	"github.com/dmitrymomot/pdfmail/pkg/job"
	"github.com/dmitrymomot/pdfmail/pkg/mailer"
	"github.com/dmitrymomot/pdfmail/pkg/mailer/resend"
	"github.com/dmitrymomot/pdfmail/pkg/mailer/smtp"
	"github.com/dmitrymomot/pdfmail/pkg/pdf"
	"github.com/dmitrymomot/pdfmail/pkg/redis"
	"github.com/dmitrymomot/pdfmail/pkg/storage"
)

// deps holds the long-lived resources of a command. Closers run in
// reverse order of acquisition.
type deps struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	pool    *pgxpool.Pool
	redis   goredis.UniversalClient
	store   storage.Storage
	jobs    *job.Manager
	closers []func(context.Context) error
}

func (d *deps) onClose(fn func(context.Context) error) {
	d.closers = append(d.closers, fn)
}

// Close releases everything in reverse order.
func (d *deps) Close(ctx context.Context) error {
	var errs []error
	for _, fn := range slices.Backward(d.closers) {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

// openDeps connects the database, Redis (when configured) and storage.
func openDeps(ctx context.Context, rt *runtimeState) (*deps, error) {
	d := &deps{
		cfg:     rt.cfg,
		logger:  rt.logger,
		metrics: metrics.New(),
	}

	pool, err := db.Connect(ctx, d.cfg.DB)
	if err != nil {
		return nil, err
	}
	d.pool = pool
	d.onClose(db.Shutdown(pool))

	if d.cfg.Redis.Enabled() {
		client, err := redis.Open(ctx, d.cfg.Redis)
		if err != nil {
			return nil, errors.Join(err, d.Close(ctx))
		}
		d.redis = client
		d.onClose(redis.Shutdown(client))
	}

	store, err := storage.Open(d.cfg.Storage)
	if err != nil {
		return nil, errors.Join(err, d.Close(ctx))
	}
	d.store = store
	return d, nil
}

// startJobs builds the job manager with the disposal tasks registered.
func (d *deps) startJobs() error {
	dcfg := d.cfg.Disposal
	opts := []disposal.Option{
		disposal.WithLogger(d.logger.With(slog.String("component", "disposal"))),
		disposal.WithOutcomeCounter(d.metrics.Disposals),
		disposal.WithSweptCounter(d.metrics.Swept),
	}

	m, err := job.NewManager(d.pool,
		job.WithLogger(d.logger.With(slog.String("component", "jobs"))),
		job.WithMaxWorkers(d.cfg.Jobs.MaxWorkers),
		job.WithQueue(dcfg.Queue, dcfg.Workers),
		job.WithTask[disposal.Record](disposal.NewRemover(d.store, opts...)),
		job.WithScheduledTask(disposal.NewSweeper(d.store, dcfg, d.cfg.Artifact.OutputDir, opts...)),
	)
	if err != nil {
		return err
	}
	d.jobs = m
	return nil
}

// contentReader returns the content store, cached when CONTENT_CACHE_TTL is positive.
func (d *deps) contentReader() content.Reader {
	store := content.NewStore(d.pool)
	ttl := d.cfg.Content.CacheTTL
	if ttl <= 0 {
		return store
	}

	var c cache.Cache[*content.Entity]
	if d.redis != nil {
		c = cache.NewRedis[*content.Entity](d.redis, "pdfmail:content:", ttl, cache.JSON[*content.Entity]{})
	} else {
		c = cache.NewMemory[*content.Entity](cache.MemoryConfig{
			DefaultTTL:      ttl,
			CleanupInterval: ttl,
			MaxEntries:      1024,
		})
	}
	d.onClose(func(context.Context) error { return c.Close() })
	return content.NewCached(store, c, ttl)
}

// sender selects the mail transport named by MAILER_PROVIDER.
func (d *deps) sender() (mailer.Sender, error) {
	switch d.cfg.Mailer.Provider {
	case mailer.ProviderResend:
		return resend.New(d.cfg.Resend), nil
	case mailer.ProviderSMTP:
		return smtp.New(d.cfg.SMTP,
			smtp.WithLogger(d.logger),
			smtp.WithCounters(d.metrics.MailSent, d.metrics.MailFailed),
		), nil
	case mailer.ProviderLog:
		return mailer.NewLogSender(d.logger), nil
	default:
		return nil, fmt.Errorf("unknown mailer provider %q", d.cfg.Mailer.Provider)
	}
}

// artifactMailer wires the PDF pipeline onto queue.
func (d *deps) artifactMailer(queue artifact.Queue) (*artifact.Mailer, error) {
	engine, err := pdf.NewChromedp(d.cfg.PDF, pdf.WithChromedpLogger(d.logger))
	if err != nil {
		return nil, err
	}
	d.onClose(func(context.Context) error { return engine.Close() })

	printer := pdf.NewPrinter(d.store,
		pdf.WithEngine(engine),
		pdf.WithLogger(d.logger.With(slog.String("component", "pdf"))),
	)

	sender, err := d.sender()
	if err != nil {
		return nil, err
	}
	renderer := mailer.NewRendererWithConfig(artifact.Templates(), mailer.RendererConfig{
		LayoutDir:     "layouts",
		DefaultLocale: d.cfg.Mailer.DefaultLocale,
	})
	mail := mailer.New(sender, renderer, d.cfg.Mailer)

	dcfg := d.cfg.Disposal
	return artifact.New(d.cfg.Artifact, d.store, printer, mail, queue,
		artifact.WithLogger(d.logger.With(slog.String("component", "artifact"))),
		artifact.WithOutcomeCounter(d.metrics.Artifacts),
		artifact.WithDisposalOptions(job.ScheduledIn(dcfg.Delay), job.MaxAttempts(dcfg.MaxAttempts)),
	)
}
