package job

import "errors"

var (
	// ErrUnknownTask is returned when a task name has no registered handler.
	ErrUnknownTask = errors.New("job: unknown task")

	// ErrInvalidPayload is returned when a payload cannot be decoded into
	// the task's payload type.
	ErrInvalidPayload = errors.New("job: invalid payload")

	// ErrAlreadyStarted is returned by Start on a running manager.
	ErrAlreadyStarted = errors.New("job: already started")

	// ErrNotStarted is returned by Stop on a manager that is not running.
	ErrNotStarted = errors.New("job: not started")

	// ErrPoolRequired is returned when no database pool is given.
	ErrPoolRequired = errors.New("job: pool is required")

	// ErrQueueRequired is returned when a queue has no name.
	ErrQueueRequired = errors.New("job: queue name is required")

	// ErrQueueWorkers is returned when a named queue has no workers.
	ErrQueueWorkers = errors.New("job: queue needs at least one worker")
)
