package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

const (
	defaultMaxWorkers = 100
	defaultQueue      = river.QueueDefault
	taskKind          = "pdfmail:task"
)

// Manager inserts and processes jobs. It embeds Enqueuer for inserts and
// rejects task names that have no registered handler.
type Manager struct {
	*Enqueuer
	registry *taskRegistry
	logger   *slog.Logger
	queues   []string

	mu      sync.Mutex
	started bool
}

// NewManager creates a manager. The River client is built immediately so
// jobs can be enqueued before Start.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := newConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.maxWorkers == 0 {
		cfg.maxWorkers = defaultMaxWorkers
	}

	queues, names := cfg.riverQueues()

	periodicJobs, err := cfg.periodicJobs()
	if err != nil {
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &taskWorker{
		registry: cfg.registry,
		logger:   cfg.logger,
	})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       queues,
		Workers:      workers,
		PeriodicJobs: periodicJobs,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		Enqueuer: &Enqueuer{
			pool:   pool,
			client: client,
			logger: cfg.logger,
		},
		registry: cfg.registry,
		logger:   cfg.logger,
		queues:   names,
	}, nil
}

// Start begins processing jobs on every configured queue.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}

	m.started = true
	m.logger.Info("job manager started",
		slog.Any("tasks", m.registry.names()),
		slog.Any("queues", m.queues),
	)
	return nil
}

// Stop waits for running jobs to finish, then stops fetching new ones.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}

	m.started = false
	m.logger.Info("job manager stopped")
	return nil
}

// Enqueue inserts a job for a registered task.
func (m *Manager) Enqueue(ctx context.Context, name string, payload any, opts ...EnqueueOption) error {
	if _, ok := m.registry.get(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return m.Enqueuer.Enqueue(ctx, name, payload, opts...)
}

// EnqueueTx inserts a job for a registered task inside tx.
func (m *Manager) EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...EnqueueOption) error {
	if _, ok := m.registry.get(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	return m.Enqueuer.EnqueueTx(ctx, tx, name, payload, opts...)
}

// Queue returns a producer bound to the named queue that validates task names.
func (m *Manager) Queue(name string) *Queue {
	return NewQueue(m, name)
}

// StartFunc adapts Start to a startup hook. River stops hard once its start
// context ends, so the hook detaches from cancellation; use Shutdown to stop.
func (m *Manager) StartFunc() func(context.Context) error {
	return func(ctx context.Context) error {
		return m.Start(context.WithoutCancel(ctx))
	}
}

// Shutdown adapts Stop to a shutdown hook. A manager that never started
// shuts down without error.
func (m *Manager) Shutdown() func(context.Context) error {
	return func(ctx context.Context) error {
		if err := m.Stop(ctx); err != nil && !errors.Is(err, ErrNotStarted) {
			return err
		}
		return nil
	}
}

// Cancel marks err as permanent so the job is not retried.
func Cancel(err error) error {
	return river.JobCancel(err)
}

// taskArgs is the single River args type; the registry dispatches on TaskName.
type taskArgs struct {
	TaskName  string          `json:"task_name"`
	UniqueKey string          `json:"unique_key,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (taskArgs) Kind() string { return taskKind }

type taskWorker struct {
	river.WorkerDefaults[taskArgs]
	registry *taskRegistry
	logger   *slog.Logger
}

func (w *taskWorker) Work(ctx context.Context, job *river.Job[taskArgs]) error {
	executor, ok := w.registry.get(job.Args.TaskName)
	if !ok || executor == nil {
		// A job for a task this build does not know will never succeed.
		return river.JobCancel(fmt.Errorf("%w: %s", ErrUnknownTask, job.Args.TaskName))
	}

	log := w.logger.With(
		slog.String("task", job.Args.TaskName),
		slog.String("queue", job.Queue),
		slog.Int64("job_id", job.ID),
		slog.Int("attempt", job.Attempt),
	)
	log.DebugContext(ctx, "executing task")

	if err := executor.Execute(ctx, job.Args.Payload); err != nil {
		log.ErrorContext(ctx, "task failed",
			slog.Int("max_attempts", job.MaxAttempts),
			slog.Any("error", err),
		)
		return err
	}

	log.DebugContext(ctx, "task completed")
	return nil
}
