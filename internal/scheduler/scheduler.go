// Package scheduler runs the background sweeps on cron schedules, decoupled
// from the request path. A failing sweep is logged and retried on the next
// tick; it never stops the schedule.
package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// Register adds a named sweep on the given cron spec (e.g. "@every 1m").
// The sweep must be idempotent: overlapping or repeated runs see only
// status-flag transitions.
func (s *Scheduler) Register(spec, name string, sweep func() error) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := sweep(); err != nil {
			s.logger.Error("sweep failed", "sweep", name, "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.logger.Info("sweep registered", "sweep", name, "spec", spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for any sweep in flight.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
