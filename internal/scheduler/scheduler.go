package scheduler

import (
	"context"
	"fmt"
	"log"

	"MaterialPrices/internal/job"
	"MaterialPrices/internal/report"

	"github.com/robfig/cron/v3"
)

// Scheduler regenerates the price fixture on a cron schedule.
type Scheduler struct {
	Cron *cron.Cron
	Job  *job.Job
	Ctx  context.Context

	// OnResult, when set, receives every successful run.
	OnResult func(*job.Result)
}

// NewScheduler creates a new Scheduler. Runs never overlap.
func NewScheduler(ctx context.Context, j *job.Job) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Job: j,
		Ctx: ctx,
	}
}

// Register adds the refresh task under the given spec (seconds field first).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the refresh task immediately and returns its outcome.
func (s *Scheduler) RunNow() (*job.Result, error) {
	return s.run()
}

func (s *Scheduler) refreshTask() {
	if _, err := s.run(); err != nil {
		log.Printf("[ERROR] refresh: %v", err)
	}
}

func (s *Scheduler) run() (*job.Result, error) {
	log.Println("[INFO] running refresh task")
	res, err := s.Job.Run(s.Ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] refresh done\n%s", report.FormatSummary(res))
	if s.OnResult != nil {
		s.OnResult(res)
	}
	return res, nil
}
