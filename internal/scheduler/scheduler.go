// Package scheduler wraps the cron runner with named jobs and logged runs.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run() error
}

// Scheduler drives the background jobs on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// New creates a Scheduler running in the given timezone. Falls back to UTC
// when the timezone cannot be loaded.
func New(timezone string, logger zerolog.Logger) *Scheduler {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn().Str("timezone", timezone).Err(err).Msg("unknown timezone, scheduling in UTC")
		loc = time.UTC
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
	}
}

// Add registers a job on a cron spec. Runs are logged with duration; a
// failing run logs the error and waits for the next tick.
func (s *Scheduler) Add(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := job.Run(); err != nil {
			s.logger.Error().Err(err).Str("job", job.Name()).Msg("scheduled job failed")
			return
		}
		s.logger.Info().
			Str("job", job.Name()).
			Dur("duration", time.Since(start)).
			Msg("scheduled job complete")
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("job", job.Name()).Str("schedule", spec).Msg("registered scheduled job")
	return nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
