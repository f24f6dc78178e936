package job

import (
	"context"
	"fmt"
)

// Dispatcher inserts jobs. Implemented by *Enqueuer and *Manager.
type Dispatcher interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...EnqueueOption) error
}

// Queue is a producer bound to one named queue.
type Queue struct {
	dispatcher Dispatcher
	name       string
}

// NewQueue binds d to the queue called name.
func NewQueue(d Dispatcher, name string) *Queue {
	return &Queue{dispatcher: d, name: name}
}

// Name returns the queue name.
func (q *Queue) Name() string { return q.name }

// Enqueue inserts a job for task on this queue. The queue name always wins
// over an InQueue option.
func (q *Queue) Enqueue(ctx context.Context, task string, payload any, opts ...EnqueueOption) error {
	if q.name == "" {
		return ErrQueueRequired
	}
	if q.dispatcher == nil {
		return fmt.Errorf("job: queue %s has no dispatcher", q.name)
	}

	opts = append(opts[:len(opts):len(opts)], InQueue(q.name))
	return q.dispatcher.Enqueue(ctx, task, payload, opts...)
}
