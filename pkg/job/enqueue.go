package job

import "time"

// enqueueConfig holds options for a single insert.
type enqueueConfig struct {
	scheduledAt *time.Time
	queue       string
	uniqueKey   string
	tags        []string
	maxAttempts int
	uniqueFor   time.Duration
	priority    int
}

// EnqueueOption configures job enqueueing.
type EnqueueOption func(*enqueueConfig)

// InQueue routes the job to a named queue. Empty names are ignored.
func InQueue(name string) EnqueueOption {
	return func(c *enqueueConfig) {
		if name != "" {
			c.queue = name
		}
	}
}

// ScheduledAt delays the job until t.
func ScheduledAt(t time.Time) EnqueueOption {
	return func(c *enqueueConfig) {
		c.scheduledAt = &t
	}
}

// ScheduledIn delays the job by d. Non-positive durations run it immediately.
func ScheduledIn(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		if d <= 0 {
			c.scheduledAt = nil
			return
		}
		t := time.Now().Add(d)
		c.scheduledAt = &t
	}
}

// MaxAttempts caps how many times a failing job is tried.
// River's default (25) applies when unset.
func MaxAttempts(n int) EnqueueOption {
	return func(c *enqueueConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// UniqueFor skips the insert when an identical job was inserted within d.
// Identity covers the task name, payload and UniqueKey.
func UniqueFor(d time.Duration) EnqueueOption {
	return func(c *enqueueConfig) {
		c.uniqueFor = d
	}
}

// UniqueKey adds a caller-chosen key to the job identity used by UniqueFor.
func UniqueKey(key string) EnqueueOption {
	return func(c *enqueueConfig) {
		c.uniqueKey = key
	}
}

// Priority sets the job priority, 1 (highest) to 4.
func Priority(p int) EnqueueOption {
	return func(c *enqueueConfig) {
		c.priority = p
	}
}

// Tags attaches labels to the job row for filtering and debugging.
func Tags(tags ...string) EnqueueOption {
	return func(c *enqueueConfig) {
		c.tags = append(c.tags, tags...)
	}
}
