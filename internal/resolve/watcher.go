package resolve

import (
	"context"
	"time"
)

// Watcher re-runs passes on the interval configured by checkIntervalMs.
// A zero interval disables the timer, leaving only explicit triggers.
type Watcher struct {
	orch *Orchestrator

	// Repos yields the repository set for each tick, so repositories
	// added to the workspace between ticks are picked up.
	Repos func() ([]string, error)

	// OnPass, when set, receives each completed pass result.
	OnPass func(*PassResult)
}

// NewWatcher returns a watcher over the orchestrator.
func NewWatcher(orch *Orchestrator, repos func() ([]string, error)) *Watcher {
	return &Watcher{orch: orch, Repos: repos}
}

// Run blocks, sweeping once immediately and then on every tick until the
// context is cancelled. Returns nil immediately when the interval is
// zero. Interval changes in settings take effect on the next tick.
func (w *Watcher) Run(ctx context.Context) error {
	interval := w.orch.settings.Policy().CheckInterval
	if interval <= 0 {
		return nil
	}

	if err := w.sweep(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				return err
			}
			if next := w.orch.settings.Policy().CheckInterval; next > 0 && next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

func (w *Watcher) sweep(ctx context.Context) error {
	repos, err := w.Repos()
	if err != nil {
		return err
	}
	pass, err := w.orch.Run(ctx, repos)
	if err != nil {
		return err
	}
	if w.OnPass != nil {
		w.OnPass(pass)
	}
	return nil
}
