// Package jobmatcher implements the vacancy duplicate detector and the
// vacancy-resume matcher. Same phaseRunner shape as internal/jobs/karaoke,
// duplicated rather than shared since the two packages' Deps have no
// overlapping repos and share only the Notifier provider.
package jobmatcher

import (
	"context"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

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
