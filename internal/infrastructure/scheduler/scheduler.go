// Package scheduler runs the periodic maintenance of the wardrobe store:
// purging old recommendation tracking and failing analyses that never
// finished.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	ErrJobQueueFull        = errors.New("job queue is full")
	// ErrAlreadyScheduled is returned while a job of the same type is queued or running
	ErrAlreadyScheduled = errors.New("job already scheduled")
	ErrInvalidJobType   = errors.New("invalid job type")
	ErrInvalidConfig    = errors.New("invalid scheduler configuration")
)

// JobExecutor runs a maintenance job and returns the number of affected rows
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) (int64, error)
}

// SchedulerConfig holds scheduler configuration. RetryDelay doubles after
// every failed attempt of a run.
type SchedulerConfig struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		MaxConcurrentJobs: 2,
		JobTimeout:        5 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        time.Minute,
	}
}

// Validate validates the configuration
func (c SchedulerConfig) Validate() error {
	if c.MaxConcurrentJobs <= 0 || c.JobTimeout <= 0 || c.RetryAttempts < 0 || c.RetryDelay < 0 {
		return ErrInvalidConfig
	}
	return nil
}

const (
	queueSize  = 16
	maxHistory = 50
)

// Scheduler runs maintenance jobs on a fixed pool of workers. At most one run
// per job type is queued or in flight at a time.
type Scheduler struct {
	config   SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	running bool
	queue   chan *Job
	active  map[JobType]bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	history *history
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config SchedulerConfig, executor JobExecutor, logger *zap.Logger) (*Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		config:   config,
		executor: executor,
		logger:   logger,
		now:      time.Now,
		active:   make(map[JobType]bool),
		history:  newHistory(maxHistory),
	}, nil
}

// Start launches the workers. Calling it on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.queue = make(chan *Job, queueSize)
	s.running = true
	for id := range s.config.MaxConcurrentJobs {
		s.wg.Add(1)
		go s.work(ctx, id, s.queue)
	}

	s.logger.Info("Maintenance scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers, bounded by ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	close(s.queue)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Maintenance scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Maintenance scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the workers are started
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Schedule queues a run of the given job type
func (s *Scheduler) Schedule(jobType JobType) error {
	return s.SubmitJob(NewJob(jobType, s.config.RetryAttempts))
}

// SubmitJob queues a job for execution
func (s *Scheduler) SubmitJob(job *Job) error {
	if !job.Type.IsValid() {
		return ErrInvalidJobType
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !s.running:
		return ErrSchedulerNotRunning
	case s.active[job.Type]:
		return ErrAlreadyScheduled
	}

	select {
	case s.queue <- job:
		s.active[job.Type] = true
		s.logger.Debug("Job queued", zap.String("job_id", job.ID.String()), zap.String("job_type", string(job.Type)))
		return nil
	default:
		return ErrJobQueueFull
	}
}

// History returns up to limit finished attempts, newest first. A
// non-positive limit returns all of them.
func (s *Scheduler) History(limit int) []Job {
	return s.history.list(limit)
}

func (s *Scheduler) work(ctx context.Context, id int, queue <-chan *Job) {
	defer s.wg.Done()
	log := s.logger.With(zap.Int("worker_id", id))

	for job := range queue {
		if ctx.Err() == nil {
			s.run(ctx, job, log)
		}
		s.mu.Lock()
		delete(s.active, job.Type)
		s.mu.Unlock()
	}
}

// run attempts the job until it succeeds, runs out of retries or the
// scheduler stops
func (s *Scheduler) run(ctx context.Context, job *Job, log *zap.Logger) {
	log = log.With(zap.String("job_id", job.ID.String()), zap.String("job_type", string(job.Type)))
	delay := s.config.RetryDelay

	for {
		err := s.attempt(ctx, job)
		if err == nil {
			log.Info("Job completed",
				zap.Int64("affected", job.Affected),
				zap.Int("attempt", job.Attempt),
				zap.Duration("duration", job.Duration()),
			)
			return
		}
		if !job.CanRetry() {
			log.Error("Job failed", zap.Int("attempt", job.Attempt), zap.Error(err))
			return
		}

		log.Warn("Job failed, retrying",
			zap.Int("attempt", job.Attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		delay *= 2
	}
}

func (s *Scheduler) attempt(ctx context.Context, job *Job) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	job.Begin(s.now())
	affected, err := s.executor.Execute(ctx, job)
	job.Finish(s.now(), affected, err)
	s.history.add(*job)
	return err
}

// history is a bounded ring of finished attempts
type history struct {
	mu    sync.RWMutex
	items []Job
	next  int
	full  bool
}

func newHistory(size int) *history {
	return &history{items: make([]Job, size)}
}

func (h *history) add(job Job) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items[h.next] = job
	h.next = (h.next + 1) % len(h.items)
	if h.next == 0 {
		h.full = true
	}
}

func (h *history) list(limit int) []Job {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := h.next
	if h.full {
		n = len(h.items)
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Job, 0, limit)
	for i := 1; i <= limit; i++ {
		out = append(out, h.items[(h.next-i+len(h.items))%len(h.items)])
	}
	return out
}
