package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockTrackingPurger struct {
	mock.Mock
}

func (m *mockTrackingPurger) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockStaleAnalysisFailer struct {
	mock.Mock
}

func (m *mockStaleAnalysisFailer) FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error) {
	args := m.Called(ctx, cutoff, message)
	return args.Get(0).(int64), args.Error(1)
}

func newTestExecutor(tracking *mockTrackingPurger, analyses *mockStaleAnalysisFailer, now time.Time) *MaintenanceExecutor {
	e := NewMaintenanceExecutor(tracking, analyses, 90*24*time.Hour, 15*time.Minute, zap.NewNop())
	e.now = func() time.Time { return now }
	return e
}

func TestMaintenanceExecutor_TrackingRetention(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	tracking := new(mockTrackingPurger)
	tracking.On("DeleteOlderThan", mock.Anything, now.Add(-90*24*time.Hour)).Return(int64(12), nil)

	e := newTestExecutor(tracking, new(mockStaleAnalysisFailer), now)
	n, err := e.Execute(context.Background(), NewJob(JobTypeTrackingRetention, 0))

	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	tracking.AssertExpectations(t)
}

func TestMaintenanceExecutor_StaleAnalysisCleanup(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	analyses := new(mockStaleAnalysisFailer)
	analyses.On("FailStale", mock.Anything, now.Add(-15*time.Minute), StaleAnalysisMessage).Return(int64(2), nil)

	e := newTestExecutor(new(mockTrackingPurger), analyses, now)
	n, err := e.Execute(context.Background(), NewJob(JobTypeStaleAnalysisCleanup, 0))

	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	analyses.AssertExpectations(t)
}

func TestMaintenanceExecutor_PropagatesErrors(t *testing.T) {
	tracking := new(mockTrackingPurger)
	tracking.On("DeleteOlderThan", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection refused"))

	e := newTestExecutor(tracking, new(mockStaleAnalysisFailer), time.Now())
	_, err := e.Execute(context.Background(), NewJob(JobTypeTrackingRetention, 0))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMaintenanceExecutor_UnknownType(t *testing.T) {
	e := newTestExecutor(new(mockTrackingPurger), new(mockStaleAnalysisFailer), time.Now())
	_, err := e.Execute(context.Background(), &Job{Type: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidJobType)
}

func TestIntervalTrigger_RunOnStart(t *testing.T) {
	executed := make(chan JobType, 4)
	s := startScheduler(t, testConfig(), funcExecutor(func(_ context.Context, job *Job) (int64, error) {
		executed <- job.Type
		return 0, nil
	}))

	trigger := NewIntervalTrigger(IntervalTriggerConfig{
		Intervals: map[JobType]time.Duration{
			JobTypeStaleAnalysisCleanup: time.Hour,
		},
		RunOnStart: true,
	}, s, zap.NewNop())
	require.NoError(t, trigger.Start(context.Background()))
	defer func() { _ = trigger.Stop(context.Background()) }()

	select {
	case jt := <-executed:
		assert.Equal(t, JobTypeStaleAnalysisCleanup, jt)
	case <-time.After(time.Second):
		t.Fatal("job was not triggered on start")
	}

	require.NoError(t, trigger.TriggerNow(JobTypeTrackingRetention))
	select {
	case jt := <-executed:
		assert.Equal(t, JobTypeTrackingRetention, jt)
	case <-time.After(time.Second):
		t.Fatal("manual trigger was not executed")
	}
}

func TestIntervalTrigger_Ticks(t *testing.T) {
	executed := make(chan JobType, 16)
	s := startScheduler(t, testConfig(), funcExecutor(func(_ context.Context, job *Job) (int64, error) {
		select {
		case executed <- job.Type:
		default:
		}
		return 0, nil
	}))

	trigger := NewIntervalTrigger(IntervalTriggerConfig{
		Intervals: map[JobType]time.Duration{JobTypeTrackingRetention: 10 * time.Millisecond},
	}, s, zap.NewNop())
	require.NoError(t, trigger.Start(context.Background()))

	require.Eventually(t, func() bool { return len(executed) >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, trigger.Stop(context.Background()))
}
