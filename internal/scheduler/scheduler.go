// Package scheduler wraps cron for periodic refresh runs.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs registered tasks on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// New creates a Scheduler. Schedules use six fields, seconds first.
func New(log *zap.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithSeconds()), log: log}
}

// Register adds a task under the given cron spec.
func (s *Scheduler) Register(spec string, task func()) error {
	if _, err := s.cron.AddFunc(spec, task); err != nil {
		return fmt.Errorf("register cron task %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}
