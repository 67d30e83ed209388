package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Job is the unit the scheduler runs on a cron cadence.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler wraps gocron with cron-expression registration and graceful
// shutdown.
type Scheduler struct {
	scheduler gocron.Scheduler
	jobs      map[string]gocron.Job
	mu        sync.Mutex
}

// NewScheduler creates a UTC-pinned scheduler.
func NewScheduler() (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{
		scheduler: scheduler,
		jobs:      make(map[string]gocron.Job),
	}, nil
}

// Register schedules a job on the given standard cron expression.
func (s *Scheduler) Register(cronExpr string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	gj, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			log.Printf("▶️  [SCHEDULER] Running job: %s", job.Name())
			start := time.Now()
			if err := job.Run(context.Background()); err != nil {
				log.Printf("❌ [SCHEDULER] Job '%s' failed: %v", job.Name(), err)
				return
			}
			log.Printf("✅ [SCHEDULER] Job '%s' completed in %v", job.Name(), time.Since(start))
		}),
		gocron.WithName(job.Name()),
	)
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.Name(), err)
	}

	s.jobs[job.Name()] = gj
	log.Printf("✅ [SCHEDULER] Registered job: %s (%s)", job.Name(), cronExpr)
	return nil
}

// Start begins running all registered jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
	log.Printf("🚀 [SCHEDULER] Started with %d jobs", len(s.jobs))
}

// RunNow immediately runs a specific job (useful for testing).
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	gj, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job %q not registered", name)
	}
	return gj.RunNow()
}

// Stop gracefully stops all jobs.
func (s *Scheduler) Stop() error {
	log.Println("🛑 [SCHEDULER] Stopping job scheduler...")
	return s.scheduler.Shutdown()
}
