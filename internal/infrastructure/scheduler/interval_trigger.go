package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalTriggerConfig maps each job type to how often it is submitted.
// Types with a zero interval are never triggered.
type IntervalTriggerConfig struct {
	Intervals  map[JobType]time.Duration
	RunOnStart bool
}

// JobScheduler accepts runs of a job type
type JobScheduler interface {
	Schedule(jobType JobType) error
}

// IntervalTrigger submits maintenance jobs on fixed intervals. A tick that
// finds the previous run still pending is skipped.
type IntervalTrigger struct {
	config    IntervalTriggerConfig
	scheduler JobScheduler
	logger    *zap.Logger

	mu   sync.Mutex
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// NewIntervalTrigger creates a new interval trigger
func NewIntervalTrigger(config IntervalTriggerConfig, scheduler JobScheduler, logger *zap.Logger) *IntervalTrigger {
	return &IntervalTrigger{config: config, scheduler: scheduler, logger: logger}
}

// Start runs one ticker loop per configured job type
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return nil
	}
	ctx, t.stop = context.WithCancel(ctx)

	for _, jobType := range AllJobTypes() {
		every := t.config.Intervals[jobType]
		if every <= 0 {
			continue
		}
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			t.loop(ctx, jobType, every)
		}()
		t.logger.Info("Maintenance trigger started",
			zap.String("job_type", string(jobType)),
			zap.Duration("interval", every),
		)
	}
	return nil
}

// Stop ends every ticker loop, bounded by ctx
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	stop := t.stop
	t.stop = nil
	t.mu.Unlock()
	if stop == nil {
		return nil
	}
	stop()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerNow submits a job of the given type immediately
func (t *IntervalTrigger) TriggerNow(jobType JobType) error {
	return t.scheduler.Schedule(jobType)
}

func (t *IntervalTrigger) loop(ctx context.Context, jobType JobType, every time.Duration) {
	if t.config.RunOnStart {
		t.fire(jobType)
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fire(jobType)
		}
	}
}

func (t *IntervalTrigger) fire(jobType JobType) {
	err := t.scheduler.Schedule(jobType)
	switch {
	case err == nil:
	case errors.Is(err, ErrAlreadyScheduled):
		t.logger.Debug("Previous run still pending, skipping tick", zap.String("job_type", string(jobType)))
	default:
		t.logger.Error("Failed to schedule maintenance job", zap.String("job_type", string(jobType)), zap.Error(err))
	}
}
