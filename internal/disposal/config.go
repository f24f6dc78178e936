package disposal

import "time"

// Task names registered with the job manager.
const (
	TaskName      = "pdf_remover"
	SweepTaskName = "pdf_stale_sweep"
)

// Config holds disposal queue and sweeper settings.
type Config struct {
	Queue         string        `env:"DISPOSAL_QUEUE" envDefault:"pdf_remover"`
	SweepSchedule string        `env:"SWEEP_SCHEDULE" envDefault:"*/30 * * * *"`
	Delay         time.Duration `env:"DISPOSAL_DELAY" envDefault:"0s"`
	MaxAge        time.Duration `env:"ARTIFACT_MAX_AGE" envDefault:"24h"`
	MaxAttempts   int           `env:"DISPOSAL_MAX_ATTEMPTS" envDefault:"5"`
	Workers       int           `env:"DISPOSAL_WORKERS" envDefault:"2"`
}
