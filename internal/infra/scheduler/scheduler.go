package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CycleScheduler runs a task on a standard cron schedule: once immediately
// at start, then on every trigger until the context is cancelled. The wait
// is recomputed from the current time before each run, so clock skew or a
// long-running task never makes a trigger silently disappear; a trigger
// that is already due fires at once.
type CycleScheduler struct {
	spec     string
	schedule cron.Schedule
	log      *logrus.Entry
}

func NewCycleScheduler(spec string, log *logrus.Entry) (*CycleScheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return &CycleScheduler{spec: spec, schedule: schedule, log: log}, nil
}

// Run blocks until ctx is cancelled. Cancellation during the inter-run wait
// takes effect immediately; a task that is already running finishes first.
func (s *CycleScheduler) Run(ctx context.Context, task func(context.Context)) {
	if ctx.Err() != nil {
		return
	}

	s.log.Info("first start, running a cycle immediately")
	task(ctx)

	for {
		next := s.schedule.Next(time.Now())
		if next.IsZero() {
			s.log.Errorf("schedule %q yields no future trigger, stopping scheduler", s.spec)
			return
		}
		if wait := time.Until(next); wait > 0 {
			s.log.Infof("next run at %s (in %s)", next.Format("2006-01-02 15:04:05"), wait.Round(time.Second))
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				s.log.Info("scheduler stopped")
				return
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			s.log.Info("scheduler stopped")
			return
		}
		task(ctx)
	}
}
