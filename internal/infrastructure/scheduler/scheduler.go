// Package scheduler runs the periodic background jobs of the worker.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"aquaops/pkg/logger"
)

// Job is one unit of periodic work.
type Job func(ctx context.Context) error

// Scheduler runs cron jobs and ticker loops until its context ends.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
	loops   sync.WaitGroup
}

// New creates a scheduler evaluating cron specs in loc.
func New(loc *time.Location, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		log:     log.WithComponent("scheduler"),
		timeout: 5 * time.Minute,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// AddCron registers job under a standard five-field cron spec.
// An empty spec disables the job.
func (s *Scheduler) AddCron(name, spec string, job Job) error {
	if spec == "" {
		s.log.Infow("job disabled", "job", name)
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return err
	}
	s.log.Infow("job scheduled", "job", name, "spec", spec)
	return nil
}

// Every runs job on a fixed interval until Stop. Runs never overlap.
func (s *Scheduler) Every(name string, interval time.Duration, job Job) {
	s.loops.Add(1)
	go func() {
		defer s.loops.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.run(name, job)
			}
		}
	}()
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.log.Errorw("job failed", "job", name, "error", err, "duration", time.Since(start))
		return
	}
	s.log.Debugw("job finished", "job", name, "duration", time.Since(start))
}

// Start starts the cron runner.
func (s *Scheduler) Start() {
	s.log.Info("starting scheduler")
	s.cron.Start()
}

// Stop cancels running jobs and waits for cron jobs and loops to return.
func (s *Scheduler) Stop() {
	s.log.Info("stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	s.loops.Wait()
}
