package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically removes terminal executions older than the retention
// window, keeping the tracker bounded.
type Sweeper struct {
	store     Store
	retention time.Duration
	logger    *slog.Logger
	cron      *cron.Cron
}

func NewSweeper(store Store, retention time.Duration, schedule string, logger *slog.Logger) (*Sweeper, error) {
	sweeper := &Sweeper{
		store:     store,
		retention: retention,
		logger:    logger.With("module", "tracker_sweeper"),
		cron:      cron.New(),
	}

	_, err := sweeper.cron.AddFunc(schedule, sweeper.sweep)
	if err != nil {
		return nil, err
	}

	return sweeper, nil
}

func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-s.retention)

	removed, err := s.store.Sweep(ctx, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to sweep executions", "error", err)

		return
	}

	if removed > 0 {
		s.logger.InfoContext(ctx, "Swept terminal executions", "removed", removed, "cutoff", cutoff)
	}
}
