package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/riverqueue/river"
)

type config struct {
	registry   *taskRegistry
	queues     map[string]int
	logger     *slog.Logger
	schedules  []scheduleConfig
	errs       []error
	maxWorkers int
}

func newConfig() *config {
	return &config{
		registry: newTaskRegistry(),
		queues:   make(map[string]int),
	}
}

// riverQueues returns the River queue config and the sorted queue names.
// The default queue always exists and gets maxWorkers.
func (c *config) riverQueues() (map[string]river.QueueConfig, []string) {
	queues := map[string]river.QueueConfig{
		defaultQueue: {MaxWorkers: c.maxWorkers},
	}
	for name, workers := range c.queues {
		queues[name] = river.QueueConfig{MaxWorkers: workers}
	}

	names := make([]string, 0, len(queues))
	for name := range queues {
		names = append(names, name)
	}
	slices.Sort(names)
	return queues, names
}

func (c *config) validate() error {
	return errors.Join(c.errs...)
}

// Option configures the job manager.
type Option func(*config)

// WithTask registers a task. The payload type P is inferred from Handle.
//
//	job.WithTask(disposal.NewRemover(store, logger))
func WithTask[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}](task T) Option {
	return func(c *config) {
		c.registry.register(task.Name(), newTaskWrapper[P, T](task))
	}
}

// WithScheduledTask registers a periodic task. Schedule returns a five field
// cron expression (minute hour day month weekday).
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, scheduleConfig{
			name:     task.Name(),
			schedule: task.Schedule(),
			handler:  task.Handle,
		})
	}
}

// WithQueue adds a named queue with its own worker count. A queue without
// a name or without workers fails NewManager: jobs inserted into it would
// never be fetched.
func WithQueue(name string, workers int) Option {
	return func(c *config) {
		switch {
		case name == "":
			c.errs = append(c.errs, ErrQueueRequired)
		case workers < 1:
			c.errs = append(c.errs, fmt.Errorf("%w: %s has %d", ErrQueueWorkers, name, workers))
		default:
			c.queues[name] = workers
		}
	}
}

// WithLogger sets the logger. A discard logger is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers sets the worker count of the default queue (100).
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}
