package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/infra/metrics"
	"telegram-vip-subscription/internal/usecase"
)

// TrialWorker collects due free-trial timers. The sweep interval is short;
// trial windows are minutes, not days.
type TrialWorker struct {
	interval time.Duration
	trials   usecase.TrialUseCase
	log      *zerolog.Logger
}

func NewTrialWorker(interval time.Duration, trials usecase.TrialUseCase, logger *zerolog.Logger) *TrialWorker {
	l := logger.With().Str("component", "TrialWorker").Logger()
	return &TrialWorker{interval: interval, trials: trials, log: &l}
}

func (w *TrialWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting trial worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Catch up on timers that came due while the process was down.
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping trial worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *TrialWorker) sweep(ctx context.Context) {
	n, err := w.trials.Sweep(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("trial sweep failed")
	}
	if n > 0 {
		metrics.AddTrialsFired(n)
		w.log.Info().Int("fired", n).Msg("trial timers fired")
	}
}
