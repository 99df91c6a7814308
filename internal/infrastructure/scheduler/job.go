package scheduler

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// JobType identifies a maintenance job
type JobType string

const (
	// JobTypeTrackingRetention deletes recommendation_tracking rows past retention
	JobTypeTrackingRetention JobType = "tracking_retention"
	// JobTypeStaleAnalysisCleanup fails analyses stuck in pending or processing
	JobTypeStaleAnalysisCleanup JobType = "stale_analysis_cleanup"
)

var jobTypes = []JobType{JobTypeTrackingRetention, JobTypeStaleAnalysisCleanup}

// AllJobTypes returns all maintenance job types
func AllJobTypes() []JobType {
	return slices.Clone(jobTypes)
}

// IsValid reports whether the job type is known
func (t JobType) IsValid() bool {
	return slices.Contains(jobTypes, t)
}

// JobStatus is the state of one attempt of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is one scheduled run of a maintenance job. A run is attempted up to
// MaxRetries+1 times; Attempt counts from 1 once the first attempt started.
type Job struct {
	ID         uuid.UUID
	Type       JobType
	Status     JobStatus
	Attempt    int
	MaxRetries int
	Affected   int64
	Error      string

	StartedAt   *time.Time
	CompletedAt *time.Time
}

// NewJob creates a pending job
func NewJob(jobType JobType, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Begin starts the next attempt
func (j *Job) Begin(now time.Time) {
	j.Attempt++
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.CompletedAt = nil
	j.Affected = 0
	j.Error = ""
}

// Finish records the outcome of the current attempt
func (j *Job) Finish(now time.Time, affected int64, err error) {
	j.CompletedAt = &now
	if err != nil {
		j.Status = JobStatusFailed
		j.Error = err.Error()
		return
	}
	j.Status = JobStatusSuccess
	j.Affected = affected
}

// CanRetry reports whether a failed attempt leaves retries
func (j *Job) CanRetry() bool {
	return j.Status == JobStatusFailed && j.Attempt <= j.MaxRetries
}

// Duration of the last finished attempt
func (j *Job) Duration() time.Duration {
	if j.StartedAt == nil || j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(*j.StartedAt)
}
