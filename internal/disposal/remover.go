package disposal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/pdfmail/pkg/job"
	"github.com/dmitrymomot/pdfmail/pkg/logger"
)

// Deleter removes files by URI. Deleting a missing file must succeed.
type Deleter interface {
	Delete(ctx context.Context, uri string) error
}

// Remover is the queue task that deletes mailed artifacts.
type Remover struct {
	store   Deleter
	logger  *slog.Logger
	outcome *prometheus.CounterVec
}

// Option configures Remover and Sweeper.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	outcome *prometheus.CounterVec
	swept   prometheus.Counter
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOutcomeCounter counts processed records, labelled by outcome.
func WithOutcomeCounter(c *prometheus.CounterVec) Option {
	return func(o *options) {
		o.outcome = c
	}
}

// WithSweptCounter counts files removed by the sweeper.
func WithSweptCounter(c prometheus.Counter) Option {
	return func(o *options) {
		o.swept = c
	}
}

func buildOptions(opts []Option) *options {
	o := &options{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewRemover creates the disposal task.
func NewRemover(store Deleter, opts ...Option) *Remover {
	o := buildOptions(opts)
	return &Remover{
		store:   store,
		logger:  o.logger,
		outcome: o.outcome,
	}
}

// Name implements the job task contract.
func (r *Remover) Name() string { return TaskName }

// Handle deletes the artifact referenced by rec.
// Invalid records cancel the job; delete errors are returned for retry.
func (r *Remover) Handle(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		r.logger.WarnContext(ctx, "discarding disposal record",
			slog.String("uri", rec.URI),
			slog.Any("error", err))
		r.count("invalid")
		return job.Cancel(err)
	}

	if err := r.store.Delete(ctx, rec.URI); err != nil {
		r.count("failed")
		return fmt.Errorf("%w: %s: %w", ErrDeleteFailure, rec.URI, err)
	}

	r.logger.InfoContext(ctx, "artifact removed", slog.String("uri", rec.URI))
	r.count("deleted")
	return nil
}

func (r *Remover) count(outcome string) {
	if r.outcome != nil {
		r.outcome.WithLabelValues(outcome).Inc()
	}
}
