package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"
)

type scheduledHandler func(ctx context.Context) error

type scheduleConfig struct {
	handler  scheduledHandler
	name     string
	schedule string
}

// periodicJobs parses every schedule and registers its handler.
func (c *config) periodicJobs() ([]*river.PeriodicJob, error) {
	jobs := make([]*river.PeriodicJob, 0, len(c.schedules))
	for _, sched := range c.schedules {
		cronSchedule, err := parseCronSchedule(sched.schedule)
		if err != nil {
			return nil, fmt.Errorf("job: invalid cron schedule %q for %s: %w", sched.schedule, sched.name, err)
		}

		name := sched.name
		jobs = append(jobs, river.NewPeriodicJob(
			cronSchedule,
			func() (river.JobArgs, *river.InsertOpts) {
				return &taskArgs{TaskName: name}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: false},
		))

		c.registry.register(name, &scheduledTaskExecutor{handler: sched.handler})
	}
	return jobs, nil
}

type scheduledTaskExecutor struct {
	handler scheduledHandler
}

func (e *scheduledTaskExecutor) Execute(ctx context.Context, _ json.RawMessage) error {
	return e.handler(ctx)
}

type cronScheduleAdapter struct {
	schedule cron.Schedule
}

func (a *cronScheduleAdapter) Next(current time.Time) time.Time {
	return a.schedule.Next(current)
}

func parseCronSchedule(expr string) (river.PeriodicSchedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &cronScheduleAdapter{schedule: schedule}, nil
}
