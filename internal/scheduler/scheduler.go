package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"FinLens/internal/config"
)

// Scheduler re-runs a job on a cron schedule. Overlapping runs are skipped,
// so at most one job executes at a time.
type Scheduler struct {
	Cron *cron.Cron
	Job  func(ctx context.Context)
	Ctx  context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, job func(ctx context.Context)) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithParser(cron.NewParser(config.CronFields)),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Job: job,
		Ctx: ctx,
	}
}

// Register adds the job under spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("register job %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the job immediately.
func (s *Scheduler) RunNow() {
	s.run()
}

func (s *Scheduler) run() {
	if s.Ctx.Err() != nil {
		return
	}
	s.Job(s.Ctx)
}
