package tracker

import (
	"context"
	"time"
)

// DefaultPollInterval is the reference polling interval for status observation.
const DefaultPollInterval = 2 * time.Second

// Watcher is the consumer side of the polling contract: a cancellable
// periodic re-fetch bound to the caller's interest in the execution, instead
// of a free-running interval.
type Watcher struct {
	store    Store
	interval time.Duration
}

func NewWatcher(store Store, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Watcher{
		store:    store,
		interval: interval,
	}
}

// Wait polls the store until the execution reaches a terminal status or ctx
// is cancelled. RUNNING is the only status treated as non-terminal.
func (w *Watcher) Wait(ctx context.Context, executionID string) (Snapshot, error) {
	snapshot, err := w.store.Get(ctx, executionID)
	if err != nil {
		return Snapshot{}, err
	}

	if snapshot.Status.Terminal() {
		return snapshot, nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		case <-ticker.C:
			snapshot, err = w.store.Get(ctx, executionID)
			if err != nil {
				return Snapshot{}, err
			}

			if snapshot.Status.Terminal() {
				return snapshot, nil
			}
		}
	}
}
