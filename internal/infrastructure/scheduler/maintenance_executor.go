package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// StaleAnalysisMessage is stored on analyses failed by the cleanup job
const StaleAnalysisMessage = "analysis timed out"

// TrackingPurger deletes tracked recommendations older than a cutoff
type TrackingPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// StaleAnalysisFailer fails analyses left pending or processing since before a cutoff
type StaleAnalysisFailer interface {
	FailStale(ctx context.Context, cutoff time.Time, message string) (int64, error)
}

// MaintenanceExecutor implements JobExecutor for the wardrobe maintenance jobs
type MaintenanceExecutor struct {
	tracking          TrackingPurger
	analyses          StaleAnalysisFailer
	trackingRetention time.Duration
	staleAfter        time.Duration
	logger            *zap.Logger
	now               func() time.Time
}

// NewMaintenanceExecutor creates a new maintenance executor
func NewMaintenanceExecutor(
	tracking TrackingPurger,
	analyses StaleAnalysisFailer,
	trackingRetention, staleAfter time.Duration,
	logger *zap.Logger,
) *MaintenanceExecutor {
	return &MaintenanceExecutor{
		tracking:          tracking,
		analyses:          analyses,
		trackingRetention: trackingRetention,
		staleAfter:        staleAfter,
		logger:            logger,
		now:               time.Now,
	}
}

// Execute dispatches the job to its maintenance routine
func (e *MaintenanceExecutor) Execute(ctx context.Context, job *Job) (int64, error) {
	switch job.Type {
	case JobTypeTrackingRetention:
		cutoff := e.now().Add(-e.trackingRetention)
		n, err := e.tracking.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return 0, fmt.Errorf("purge tracking before %s: %w", cutoff.Format(time.RFC3339), err)
		}
		if n > 0 {
			e.logger.Info("Purged old recommendation tracking",
				zap.Int64("deleted", n),
				zap.Time("cutoff", cutoff),
			)
		}
		return n, nil

	case JobTypeStaleAnalysisCleanup:
		cutoff := e.now().Add(-e.staleAfter)
		n, err := e.analyses.FailStale(ctx, cutoff, StaleAnalysisMessage)
		if err != nil {
			return 0, fmt.Errorf("fail stale analyses: %w", err)
		}
		if n > 0 {
			e.logger.Warn("Marked stale analyses as failed",
				zap.Int64("count", n),
				zap.Duration("stale_after", e.staleAfter),
			)
		}
		return n, nil

	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidJobType, job.Type)
	}
}

var _ JobExecutor = (*MaintenanceExecutor)(nil)
