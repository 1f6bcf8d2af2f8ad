// Package scheduler fires report jobs at configured times. A job failure
// is recorded but never stops future ticks.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	// tickInterval is how often due triggers are evaluated. It is much
	// coarser than the tracker's sampling cadence.
	tickInterval = time.Minute

	// shutdownGrace bounds how long in-flight jobs may run after a
	// shutdown request before they are abandoned.
	shutdownGrace = 5 * time.Second
)

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

// Trigger pairs a cron schedule with a job.
type Trigger struct {
	Name  string
	Sched cron.Schedule
	Job   Job

	next time.Time
}

// ParseSpec parses a standard five-field cron spec.
func ParseSpec(spec string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	return sched, nil
}

// Scheduler evaluates a table of triggers on a fixed tick.
type Scheduler struct {
	triggers []*Trigger
	wg       sync.WaitGroup
}

// New returns a scheduler with the given trigger table.
func New(triggers ...*Trigger) *Scheduler {
	return &Scheduler{triggers: triggers}
}

// Run evaluates due triggers once per tick until the context is
// cancelled, then waits a bounded grace period for in-flight jobs.
func (s *Scheduler) Run(ctx context.Context) {
	now := time.Now()
	for _, tr := range s.triggers {
		tr.next = tr.Sched.Next(now)

		slog.Info(
			"trigger scheduled",
			slog.String("job", tr.Name),
			slog.Time("next", tr.next),
		)
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.waitForJobs()
			return
		case now := <-ticker.C:
			s.runDue(ctx, now)
		}
	}
}

// runDue fires every trigger whose next run time has passed. Each job
// runs in its own goroutine so a slow delivery never blocks the tick
// loop.
func (s *Scheduler) runDue(ctx context.Context, now time.Time) {
	for _, tr := range s.triggers {
		if now.Before(tr.next) {
			continue
		}

		tr.next = tr.Sched.Next(now)

		s.wg.Add(1)

		go func(tr *Trigger) {
			defer s.wg.Done()

			s.runJob(ctx, tr)
		}(tr)
	}
}

// runJob executes a single job, recording its outcome. Errors are caught
// here and never propagate to the tick loop.
func (s *Scheduler) runJob(ctx context.Context, tr *Trigger) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error(
				"job panicked",
				slog.String("job", tr.Name),
				slog.Any("panic", r),
			)
		}
	}()

	start := time.Now()

	if err := tr.Job(ctx); err != nil {
		slog.Error(
			"job failed",
			slog.String("job", tr.Name),
			slog.Any("error", err),
		)

		return
	}

	slog.Info(
		"job completed",
		slog.String("job", tr.Name),
		slog.Duration("took", time.Since(start)),
	)
}

// waitForJobs blocks until in-flight jobs finish or the grace period
// elapses.
func (s *Scheduler) waitForJobs() {
	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownGrace):
		slog.Warn("abandoning in-flight jobs after grace period")
	}
}
