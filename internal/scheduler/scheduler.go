// Package scheduler runs the periodic queue sweep.
package scheduler

import (
	"context"
	"fmt"

	"github.com/mroshb/lunchmate/internal/services"
	"github.com/mroshb/lunchmate/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Sweeper is implemented by services.MatchService.
type Sweeper interface {
	Sweep() services.SweepResult
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
}

// New registers the sweep on schedule, a six-field cron spec (seconds first)
// or a descriptor such as "@every 5s".
func New(sweeper Sweeper, schedule string) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	s := &Scheduler{cron: c, sweeper: sweeper}

	if _, err := c.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Sweep scheduler started")
}

// Stop halts the scheduler and waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		logger.Info("Sweep scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) sweep() {
	result := s.sweeper.Sweep()
	if result.TimedOut > 0 || len(result.Formed) > 0 {
		logger.Info("Sweep completed", "timedOut", result.TimedOut, "groupsFormed", len(result.Formed))
	}
}
