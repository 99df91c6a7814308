package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type funcExecutor func(ctx context.Context, job *Job) (int64, error)

func (f funcExecutor) Execute(ctx context.Context, job *Job) (int64, error) {
	return f(ctx, job)
}

func testConfig() SchedulerConfig {
	return SchedulerConfig{
		MaxConcurrentJobs: 2,
		JobTimeout:        time.Second,
		RetryAttempts:     2,
		RetryDelay:        10 * time.Millisecond,
	}
}

func startScheduler(t *testing.T, cfg SchedulerConfig, exec JobExecutor) *Scheduler {
	t.Helper()
	s, err := NewScheduler(cfg, exec, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func TestNewJob(t *testing.T) {
	job := NewJob(JobTypeTrackingRetention, 3)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, JobTypeTrackingRetention, job.Type)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 3, job.MaxRetries)
	assert.Zero(t, job.Attempt)
	assert.Nil(t, job.StartedAt)
}

func TestJob_Attempts(t *testing.T) {
	start := time.Date(2026, 3, 1, 4, 0, 0, 0, time.UTC)
	job := NewJob(JobTypeStaleAnalysisCleanup, 1)

	job.Begin(start)
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.Equal(t, 1, job.Attempt)

	job.Finish(start.Add(time.Second), 0, errors.New("boom"))
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
	assert.Equal(t, time.Second, job.Duration())
	assert.True(t, job.CanRetry())

	job.Begin(start.Add(time.Minute))
	assert.Empty(t, job.Error)
	assert.Nil(t, job.CompletedAt)
	job.Finish(start.Add(2*time.Minute), 0, errors.New("boom again"))
	assert.False(t, job.CanRetry())

	job.Begin(start.Add(time.Hour))
	job.Finish(start.Add(time.Hour), 7, nil)
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Equal(t, int64(7), job.Affected)
	assert.Equal(t, 3, job.Attempt)
	assert.False(t, job.CanRetry())
}

func TestJobType_IsValid(t *testing.T) {
	assert.True(t, JobTypeTrackingRetention.IsValid())
	assert.True(t, JobTypeStaleAnalysisCleanup.IsValid())
	assert.False(t, JobType("report").IsValid())

	types := AllJobTypes()
	assert.Len(t, types, 2)
	types[0] = "mutated"
	assert.True(t, JobTypeTrackingRetention.IsValid())
}

func TestSchedulerConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultSchedulerConfig().Validate())

	cfg := testConfig()
	cfg.MaxConcurrentJobs = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = testConfig()
	cfg.JobTimeout = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = testConfig()
	cfg.RetryAttempts = -1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	_, err := NewScheduler(SchedulerConfig{}, nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler(testConfig(), funcExecutor(func(context.Context, *Job) (int64, error) { return 0, nil }), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop(ctx))
}

func TestScheduler_SubmitJob_NotRunning(t *testing.T) {
	s, err := NewScheduler(testConfig(), funcExecutor(func(context.Context, *Job) (int64, error) { return 0, nil }), zap.NewNop())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Schedule(JobTypeTrackingRetention), ErrSchedulerNotRunning)
}

func TestScheduler_SubmitJob_InvalidType(t *testing.T) {
	s := startScheduler(t, testConfig(), funcExecutor(func(context.Context, *Job) (int64, error) { return 0, nil }))

	assert.ErrorIs(t, s.Schedule(JobType("unknown")), ErrInvalidJobType)
}

func TestScheduler_ExecutesJob(t *testing.T) {
	done := make(chan JobType, 1)
	s := startScheduler(t, testConfig(), funcExecutor(func(_ context.Context, job *Job) (int64, error) {
		done <- job.Type
		return 4, nil
	}))

	require.NoError(t, s.Schedule(JobTypeTrackingRetention))

	select {
	case jt := <-done:
		assert.Equal(t, JobTypeTrackingRetention, jt)
	case <-time.After(time.Second):
		t.Fatal("job was not executed")
	}

	require.Eventually(t, func() bool { return len(s.History(0)) == 1 }, time.Second, 5*time.Millisecond)
	h := s.History(1)[0]
	assert.Equal(t, JobStatusSuccess, h.Status)
	assert.Equal(t, int64(4), h.Affected)
}

func TestScheduler_JobRetry(t *testing.T) {
	var calls atomic.Int32
	s := startScheduler(t, testConfig(), funcExecutor(func(context.Context, *Job) (int64, error) {
		if calls.Add(1) < 3 {
			return 0, errors.New("database unavailable")
		}
		return 1, nil
	}))

	require.NoError(t, s.Schedule(JobTypeStaleAnalysisCleanup))

	require.Eventually(t, func() bool { return calls.Load() == 3 }, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		h := s.History(1)
		return len(h) == 1 && h[0].Status == JobStatusSuccess
	}, time.Second, 5*time.Millisecond)

	history := s.History(0)
	require.Len(t, history, 3)
	assert.Equal(t, 3, history[0].Attempt)
	assert.Equal(t, JobStatusFailed, history[1].Status)
	assert.Equal(t, "database unavailable", history[1].Error)
	assert.Equal(t, history[0].ID, history[2].ID)
}

func TestScheduler_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	s := startScheduler(t, testConfig(), funcExecutor(func(context.Context, *Job) (int64, error) {
		calls.Add(1)
		return 0, errors.New("still failing")
	}))

	require.NoError(t, s.Schedule(JobTypeTrackingRetention))

	require.Eventually(t, func() bool { return calls.Load() == 3 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(3), calls.Load())
}

func TestScheduler_JobTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.JobTimeout = 20 * time.Millisecond
	cfg.RetryAttempts = 0

	var mu sync.Mutex
	var gotErr error
	s := startScheduler(t, cfg, funcExecutor(func(ctx context.Context, _ *Job) (int64, error) {
		<-ctx.Done()
		mu.Lock()
		gotErr = ctx.Err()
		mu.Unlock()
		return 0, ctx.Err()
	}))

	require.NoError(t, s.Schedule(JobTypeTrackingRetention))
	require.Eventually(t, func() bool { return len(s.History(0)) == 1 }, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.ErrorIs(t, gotErr, context.DeadlineExceeded)
	assert.Equal(t, JobStatusFailed, s.History(1)[0].Status)
}

func TestScheduler_OneRunPerType(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	s := startScheduler(t, testConfig(), funcExecutor(func(ctx context.Context, _ *Job) (int64, error) {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return 0, nil
	}))

	require.NoError(t, s.Schedule(JobTypeTrackingRetention))
	<-started
	assert.ErrorIs(t, s.Schedule(JobTypeTrackingRetention), ErrAlreadyScheduled)

	close(release)
	require.Eventually(t, func() bool {
		return s.Schedule(JobTypeTrackingRetention) == nil
	}, time.Second, 5*time.Millisecond)
}

func TestHistory_Ring(t *testing.T) {
	h := newHistory(2)
	assert.Empty(t, h.list(0))

	for i := range 3 {
		h.add(Job{Affected: int64(i)})
	}

	got := h.list(10)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Affected)
	assert.Equal(t, int64(1), got[1].Affected)

	require.Len(t, h.list(1), 1)
	assert.Equal(t, int64(2), h.list(1)[0].Affected)
}
