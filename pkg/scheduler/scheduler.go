// Package scheduler wraps robfig/cron with this service's logging and
// recovery conventions.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hamzaalmahdi/civitai/pkg/logger"
)

// Scheduler runs named background jobs on cron schedules. Jobs are
// serialised per entry: a tick is skipped while the previous run of the
// same job is still in flight.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler accepting standard five-field cron expressions
// plus descriptors like "@hourly" and "@every 1m".
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(cron.NewParser(
				cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor,
			)),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// AddJob registers fn under the given schedule. Panics are contained and
// failures logged; a failing run never unschedules the job.
func (s *Scheduler) AddJob(name, schedule string, fn func() error) error {
	wrapped := func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("scheduled job panicked, job=%s panic=%v", name, r)
			}
		}()
		start := time.Now()
		if err := fn(); err != nil {
			logger.Errorf("scheduled job failed, job=%s duration=%s err=%v", name, time.Since(start), err)
			return
		}
		logger.Debugf("scheduled job finished, job=%s duration=%s", name, time.Since(start))
	}
	if _, err := s.cron.AddFunc(schedule, wrapped); err != nil {
		return fmt.Errorf("add job %s with schedule %q: %w", name, schedule, err)
	}
	return nil
}

// Start launches the scheduler; jobs run in their own goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
