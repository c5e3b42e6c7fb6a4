package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"homework_status_bot/internal/app"

	"github.com/robfig/cron/v3"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDelay time.Duration

func (d fixedDelay) Next(t time.Time) time.Time { return t.Add(time.Duration(d)) }

var _ cron.Schedule = fixedDelay(0)

type countingService struct {
	mu       sync.Mutex
	cycles   int
	ctxErrs  []error
	block    chan struct{}
	started  chan struct{}
	failWith error
}

func (c *countingService) RunCycle(ctx context.Context) (app.CycleOutcome, error) {
	if c.started != nil {
		c.started <- struct{}{}
	}
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cycles++
	c.ctxErrs = append(c.ctxErrs, ctx.Err())
	if c.failWith != nil {
		return app.OutcomeFailed, c.failWith
	}
	return app.OutcomeNoChange, nil
}

func (c *countingService) Cursor() int64 { return 0 }

func (c *countingService) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycles
}

func TestPollScheduler_FirstCycleRunsImmediately(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	svc := &countingService{}
	s := NewPollScheduler(svc, fixedDelay(time.Hour), log)

	s.Start(context.Background())
	require.Eventually(t, func() bool { return svc.count() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Equal(t, 1, svc.count())
}

func TestPollScheduler_RepeatsOnSchedule(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	svc := &countingService{failWith: errors.New("api down")}
	s := NewPollScheduler(svc, fixedDelay(10*time.Millisecond), log)

	s.Start(context.Background())
	require.Eventually(t, func() bool { return svc.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := svc.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, svc.count(), "no cycles after Stop")
}

func TestPollScheduler_StopWaitsForRunningCycle(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	svc := &countingService{block: make(chan struct{}), started: make(chan struct{}, 1)}
	s := NewPollScheduler(svc, fixedDelay(time.Hour), log)

	s.Start(context.Background())
	<-svc.started

	var stopped atomic.Bool
	go func() {
		s.Stop()
		stopped.Store(true)
	}()

	time.Sleep(30 * time.Millisecond)
	assert.False(t, stopped.Load(), "Stop returned while a cycle was running")

	close(svc.block)
	require.Eventually(t, stopped.Load, time.Second, 5*time.Millisecond)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Len(t, svc.ctxErrs, 1)
	assert.NoError(t, svc.ctxErrs[0], "in-flight cycle must not see cancellation")
}

func TestPollScheduler_ParentContextCancels(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	svc := &countingService{}
	s := NewPollScheduler(svc, fixedDelay(time.Hour), log)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return svc.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not exit after context cancellation")
	}
}

func TestPollScheduler_StopWithoutStart(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	s := NewPollScheduler(&countingService{}, fixedDelay(time.Second), log)

	assert.NotPanics(t, s.Stop)
}
