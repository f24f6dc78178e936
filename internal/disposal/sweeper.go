package disposal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/pdfmail/pkg/storage"
)

// Sweeper periodically removes artifacts older than a maximum age.
// It only acts on stores implementing storage.Sweeper; other backends are
// expected to expire objects themselves, e.g. with bucket lifecycle rules.
type Sweeper struct {
	store    storage.Storage
	dir      string
	schedule string
	maxAge   time.Duration
	logger   *slog.Logger
	swept    prometheus.Counter
}

// NewSweeper creates the sweep task for the artifacts under dir.
func NewSweeper(store storage.Storage, cfg Config, dir string, opts ...Option) *Sweeper {
	o := buildOptions(opts)
	return &Sweeper{
		store:    store,
		dir:      dir,
		schedule: cfg.SweepSchedule,
		maxAge:   cfg.MaxAge,
		logger:   o.logger,
		swept:    o.swept,
	}
}

// Name implements the job task contract.
func (s *Sweeper) Name() string { return SweepTaskName }

// Schedule returns the cron expression the task runs on.
func (s *Sweeper) Schedule() string { return s.schedule }

// Handle removes stale artifacts.
func (s *Sweeper) Handle(ctx context.Context) error {
	sw, ok := s.store.(storage.Sweeper)
	if !ok {
		s.logger.DebugContext(ctx, "storage backend does not support sweeping", slog.String("dir", s.dir))
		return nil
	}
	if s.maxAge <= 0 {
		return nil
	}

	n, err := sw.CleanupOlderThan(ctx, s.dir, s.maxAge)
	if err != nil {
		return fmt.Errorf("disposal: sweep %s: %w", s.dir, err)
	}
	if s.swept != nil {
		s.swept.Add(float64(n))
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "stale artifacts removed",
			slog.String("dir", s.dir),
			slog.Int("count", n),
			slog.Duration("max_age", s.maxAge))
	}
	return nil
}
