package job

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

// Enqueuer inserts jobs without processing them. The HTTP process uses it
// when workers run in a separate `pdfmail worker` process.
type Enqueuer struct {
	pool   *pgxpool.Pool
	client *river.Client[pgx.Tx]
	logger *slog.Logger
}

// EnqueuerOption configures the enqueuer.
type EnqueuerOption func(*enqueuerConfig)

type enqueuerConfig struct {
	logger *slog.Logger
}

// WithEnqueuerLogger sets the logger for the enqueuer.
func WithEnqueuerLogger(l *slog.Logger) EnqueuerOption {
	return func(c *enqueuerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewEnqueuer creates an insert-only River client.
func NewEnqueuer(pool *pgxpool.Pool, opts ...EnqueuerOption) (*Enqueuer, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := &enqueuerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Logger: cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create enqueuer client: %w", err)
	}

	return &Enqueuer{
		pool:   pool,
		client: client,
		logger: cfg.logger,
	}, nil
}

// Enqueue inserts a job for the named task. The task name is resolved by
// the worker process.
func (e *Enqueuer) Enqueue(ctx context.Context, name string, payload any, opts ...EnqueueOption) error {
	args, insertOpts, err := buildJobArgs(name, payload, opts...)
	if err != nil {
		return err
	}

	res, err := e.client.Insert(ctx, args, insertOpts)
	if err != nil {
		return fmt.Errorf("job: enqueue %s: %w", name, err)
	}

	e.logger.DebugContext(ctx, "job enqueued",
		slog.String("task", name),
		slog.String("queue", res.Job.Queue),
		slog.Int64("job_id", res.Job.ID),
		slog.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

// EnqueueTx inserts a job inside tx. The job becomes visible on commit.
func (e *Enqueuer) EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...EnqueueOption) error {
	args, insertOpts, err := buildJobArgs(name, payload, opts...)
	if err != nil {
		return err
	}

	if _, err := e.client.InsertTx(ctx, tx, args, insertOpts); err != nil {
		return fmt.Errorf("job: enqueue tx %s: %w", name, err)
	}
	return nil
}

// Queue returns a producer bound to the named queue.
func (e *Enqueuer) Queue(name string) *Queue {
	return NewQueue(e, name)
}

// buildJobArgs converts a task name, payload and options into River insert
// arguments. Shared by Enqueuer and Manager.
func buildJobArgs(name string, payload any, opts ...EnqueueOption) (*taskArgs, *river.InsertOpts, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("%w: empty name", ErrUnknownTask)
	}

	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
	}

	args := &taskArgs{TaskName: name, Payload: raw}

	cfg := &enqueueConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	insertOpts := &river.InsertOpts{
		Queue:       cfg.queue,
		MaxAttempts: cfg.maxAttempts,
		Tags:        cfg.tags,
	}
	if cfg.scheduledAt != nil {
		insertOpts.ScheduledAt = *cfg.scheduledAt
	}
	if cfg.priority > 0 {
		insertOpts.Priority = cfg.priority
	}
	if cfg.uniqueFor > 0 {
		insertOpts.UniqueOpts = river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: cfg.uniqueFor,
		}
		args.UniqueKey = cfg.uniqueKey
	}

	return args, insertOpts, nil
}
