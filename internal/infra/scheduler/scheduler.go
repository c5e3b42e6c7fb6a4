package scheduler

import (
	"context"
	"time"

	"homework_status_bot/internal/app" // For PollService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PollScheduler runs poll cycles one after another. After each cycle it
// waits until the schedule's next activation, measured from the end of the
// cycle, so cycles never overlap.
type PollScheduler struct {
	pollService app.PollService
	schedule    cron.Schedule
	logger      *logrus.Entry

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPollScheduler(pollService app.PollService, schedule cron.Schedule, logger *logrus.Logger) *PollScheduler {
	return &PollScheduler{
		pollService: pollService,
		schedule:    schedule,
		logger:      logger.WithField("component", "scheduler"),
	}
}

// Start runs the first cycle immediately and keeps polling in the background
// until ctx is cancelled or Stop is called.
func (s *PollScheduler) Start(ctx context.Context) {
	s.logger.Info("Starting poll scheduler...")

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.run(ctx)
}

func (s *PollScheduler) run(ctx context.Context) {
	defer close(s.done)

	for {
		s.executeCycle(ctx)

		now := time.Now()
		next := s.schedule.Next(now)
		s.logger.WithField("next_run", next.Format(time.RFC3339)).Debug("Waiting for next poll cycle")

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// executeCycle runs one cycle. Cancellation is only observed between cycles,
// so the cycle itself gets a context that Stop does not cancel.
func (s *PollScheduler) executeCycle(ctx context.Context) {
	start := time.Now()
	outcome, err := s.pollService.RunCycle(context.WithoutCancel(ctx))

	entry := s.logger.WithFields(logrus.Fields{
		"outcome":  outcome.String(),
		"duration": time.Since(start).String(),
		"cursor":   s.pollService.Cursor(),
	})
	if err != nil {
		entry.WithError(err).Warn("Poll cycle failed, will retry on next schedule")
		return
	}
	entry.Info("Poll cycle completed")
}

// Stop cancels the schedule and waits for a running cycle to finish.
func (s *PollScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.logger.Info("Stopping poll scheduler...")
	s.cancel()
	<-s.done
	s.logger.Info("Poll scheduler gracefully stopped.")
}
