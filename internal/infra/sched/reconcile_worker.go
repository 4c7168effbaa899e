package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/infra/metrics"
	"telegram-vip-subscription/internal/usecase"
)

// ReconcileWorker fires the periodic VIP-flag reconciliation pass. The
// autocheck toggle is consulted at every tick, so flipping it takes effect
// without a restart.
type ReconcileWorker struct {
	interval  time.Duration
	reconcile usecase.ReconcileUseCase
	settings  usecase.SettingsUseCase
	log       *zerolog.Logger
}

func NewReconcileWorker(interval time.Duration, reconcile usecase.ReconcileUseCase, settings usecase.SettingsUseCase, logger *zerolog.Logger) *ReconcileWorker {
	l := logger.With().Str("component", "ReconcileWorker").Logger()
	return &ReconcileWorker{
		interval:  interval,
		reconcile: reconcile,
		settings:  settings,
		log:       &l,
	}
}

func (w *ReconcileWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting reconcile worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping reconcile worker")
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ReconcileWorker) tick(ctx context.Context) {
	s, err := w.settings.Get(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("settings read failed, skipping pass")
		return
	}
	if !s.AutoCheck {
		return
	}

	started := time.Now()
	report, err := w.reconcile.Run(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrPassInProgress) {
			metrics.IncReconcilePass("skipped")
			w.log.Debug().Msg("pass already running, skipped")
			return
		}
		metrics.IncReconcilePass("error")
		w.log.Error().Err(err).Msg("reconcile pass failed")
		return
	}
	metrics.IncReconcilePass("ok")
	metrics.AddReconcileUpdated(report.RecordsUpdated)
	metrics.ObserveReconcileDuration(time.Since(started).Seconds())
}
