package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/pgdesk/pgdesk/internal/domain"
)

// RetentionSweeper trims the activity log on a cron schedule, keeping the
// newest entries per connection. A keep value of zero disables the sweep
// and the log grows unbounded.
type RetentionSweeper struct {
	cron     *cron.Cron
	activity domain.ActivityRepository
	keep     int
	schedule string
	logger   *slog.Logger
}

func NewRetentionSweeper(activity domain.ActivityRepository, keep int, schedule string, logger *slog.Logger) *RetentionSweeper {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RetentionSweeper{
		cron:     cron.New(),
		activity: activity,
		keep:     keep,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the sweep job and starts the scheduler. With retention
// disabled it does nothing.
func (s *RetentionSweeper) Start() error {
	if s.keep <= 0 {
		s.logger.Info("activity retention disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.Sweep(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("activity retention sweeper started",
		slog.String("schedule", s.schedule),
		slog.Int("keep", s.keep))
	return nil
}

// Stop halts the scheduler without waiting for a running sweep.
func (s *RetentionSweeper) Stop() {
	s.cron.Stop()
}

// Sweep runs one retention pass immediately.
func (s *RetentionSweeper) Sweep(ctx context.Context) {
	removed, err := s.activity.Prune(ctx, s.keep)
	if err != nil {
		s.logger.Error("activity retention sweep failed", slog.Any("error", err))
		return
	}
	if removed > 0 {
		s.logger.Info("activity retention sweep", slog.Int64("removed", removed))
	}
}
