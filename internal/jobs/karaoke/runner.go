// Package karaoke implements the per-phase pollers that drive a Task through
// SPLIT -> TRANSCRIPT -> SUBTITLES -> ASSEMBLE. Grounded on
// internal/jobs/worker/worker.go's loop shape (Start spawns goroutines,
// runLoop ticks on an interval, panics are recovered into failures) but
// replaces its generic job_run claim/registry with the disjoint per-phase
// claim filters each operation's repo method already encodes.
package karaoke

import (
	"context"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// phaseRunner ticks tickFn on interval until ctx is cancelled. It does not
// start a new tick after cancellation is observed, but never interrupts one
// already in flight, matching the shutdown-drains-in-flight-work contract.
type phaseRunner struct {
	name     string
	log      *logger.Logger
	interval time.Duration
	tickFn   func(ctx context.Context)
}

func newPhaseRunner(name string, log *logger.Logger, interval time.Duration, tickFn func(ctx context.Context)) *phaseRunner {
	return &phaseRunner{
		name:     name,
		log:      log.With("worker", name),
		interval: interval,
		tickFn:   tickFn,
	}
}

// Start launches the runner's loop in its own goroutine.
func (r *phaseRunner) Start(ctx context.Context) {
	go r.loop(ctx)
}

func (r *phaseRunner) loop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("worker stopped")
			return
		case <-ticker.C:
			r.safeTick(ctx)
		}
	}
}

func (r *phaseRunner) safeTick(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("worker tick panic", "panic", rec)
		}
	}()
	r.tickFn(ctx)
}
