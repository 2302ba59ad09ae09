package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	JobEmployeeRefresh = "employee_refresh"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	historySize = 50
)

type RunFunc func(context.Context) (any, error)

// Run records one job execution.
type Run struct {
	ID          int64      `json:"id"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	Details     any        `json:"details,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type schedule struct {
	jobType  string
	interval time.Duration
	run      RunFunc
}

type job struct {
	Type string
	Run  RunFunc
}

type Service struct {
	log       zerolog.Logger
	queue     chan job
	schedules []schedule
	now       func() time.Time

	mu      sync.Mutex
	nextID  int64
	history []Run
}

func New(log zerolog.Logger) *Service {
	return &Service{
		log:   log.With().Str("component", "jobs").Logger(),
		queue: make(chan job, 128),
		now:   time.Now,
	}
}

// Every registers a job enqueued on each tick of interval. Call before Start.
// Non-positive intervals are ignored.
func (s *Service) Every(jobType string, interval time.Duration, run RunFunc) {
	if interval <= 0 {
		return
	}
	s.schedules = append(s.schedules, schedule{jobType: jobType, interval: interval, run: run})
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	for _, sch := range s.schedules {
		go s.schedule(ctx, sch)
	}
}

// Enqueue hands j to the worker, dropping it when the queue is full.
func (s *Service) Enqueue(jobType string, run RunFunc) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		s.log.Warn().Str("jobType", jobType).Msg("job queue full")
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// Runs returns the most recent runs, newest first.
func (s *Service) Runs() []Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Run, len(s.history))
	for i, r := range s.history {
		out[len(s.history)-1-i] = r
	}
	return out
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.log.Warn().Err(err).Str("jobType", j.Type).Msg("job run failed")
			}
		}
	}
}

// runJob records a running entry, executes j and replaces the entry with
// its outcome.
func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	started := s.now()
	run := s.begin(Run{Type: j.Type, Status: StatusRunning, StartedAt: started})

	details, err := j.Run(ctx)
	completed := s.now()
	run.Status = StatusCompleted
	run.Details = details
	run.CompletedAt = &completed
	if err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
	}
	s.finish(run)
	s.log.Debug().
		Str("jobType", j.Type).
		Str("status", run.Status).
		Dur("duration", completed.Sub(started)).
		Msg("job finished")
	return details, err
}

func (s *Service) begin(run Run) Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	run.ID = s.nextID
	s.history = append(s.history, run)
	if len(s.history) > historySize {
		s.history = s.history[len(s.history)-historySize:]
	}
	return run
}

// finish replaces the entry with run.ID. Entries already trimmed from the
// history are dropped.
func (s *Service) finish(run Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.history {
		if s.history[i].ID == run.ID {
			s.history[i] = run
			return
		}
	}
}

func (s *Service) schedule(ctx context.Context, sch schedule) {
	ticker := time.NewTicker(sch.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(sch.jobType, sch.run)
		}
	}
}
