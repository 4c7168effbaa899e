package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/adapter"
	"telegram-vip-subscription/internal/domain/ports/repository"
)

var _ ReconcileUseCase = (*reconcileUC)(nil)

const (
	reconcileLockKey = "vipsub:reconcile:lock"
	reconcileLockTTL = 10 * time.Minute

	// defaultExpiryWarn is how close to the end a subscription must be before
	// the holder gets a heads-up during a pass.
	defaultExpiryWarn = 24 * time.Hour
)

// Report summarizes one reconciliation pass.
type Report struct {
	UsersScanned   int
	RecordsUpdated int
}

// ReconcileUseCase drives the periodic VIP-flag sync. The subscription store
// is the source of truth; the external flag is brought in line with it, never
// the other way around.
type ReconcileUseCase interface {
	// Run executes one full pass. Concurrent invocations are rejected with
	// ErrPassInProgress; a pass already started always runs to completion.
	Run(ctx context.Context) (*Report, error)
}

type reconcileUC struct {
	users      repository.UserRepository
	subs       SubscriptionUseCase
	settings   repository.SettingsRepository
	chat       adapter.ChatAdapter
	notifier   *Notifier
	locker     adapter.Locker
	warnWindow time.Duration
	running    atomic.Bool
	log        *zerolog.Logger
}

func NewReconcileUseCase(
	users repository.UserRepository,
	subs SubscriptionUseCase,
	settings repository.SettingsRepository,
	chat adapter.ChatAdapter,
	notifier *Notifier,
	locker adapter.Locker,
	warnWindow time.Duration,
	logger *zerolog.Logger,
) *reconcileUC {
	if warnWindow <= 0 {
		warnWindow = defaultExpiryWarn
	}
	l := logger.With().Str("component", "ReconcileUC").Logger()
	return &reconcileUC{
		users:      users,
		subs:       subs,
		settings:   settings,
		chat:       chat,
		notifier:   notifier,
		locker:     locker,
		warnWindow: warnWindow,
		log:        &l,
	}
}

func (uc *reconcileUC) Run(ctx context.Context) (*Report, error) {
	// In-process guard first; the distributed lock covers other replicas.
	if !uc.running.CompareAndSwap(false, true) {
		return nil, domain.ErrPassInProgress
	}
	defer uc.running.Store(false)

	if uc.locker != nil {
		unlock, err := uc.locker.TryLock(ctx, reconcileLockKey, reconcileLockTTL)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	settings, err := uc.settings.Get(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("settings read failed, using defaults")
		settings = model.Settings{RoleSync: true}
	}

	members, err := uc.chat.Members(ctx)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	report := &Report{}
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.UsersScanned++
		updated, err := uc.reconcileMember(ctx, m, settings)
		if updated {
			// One transition per member, however many windows it touched.
			report.RecordsUpdated++
		}
		if err != nil {
			// One bad member never aborts the pass.
			uc.log.Error().Err(err).Int64("tg_id", m.TelegramID).Msg("member reconcile failed")
		}
	}

	uc.log.Info().
		Int("scanned", report.UsersScanned).
		Int("updated", report.RecordsUpdated).
		Dur("took", time.Since(started)).
		Msg("reconciliation pass complete")
	return report, nil
}

// reconcileMember brings one member's flag in line with the store. The
// returned bool reports whether the member changed state at all, so a cleared
// stale window and the flag removal it triggers read as a single transition.
func (uc *reconcileUC) reconcileMember(ctx context.Context, m adapter.Member, settings model.Settings) (bool, error) {
	now := time.Now()
	updated := false

	hasVIP, err := uc.chat.HasVIP(ctx, m.TelegramID)
	if err != nil {
		return updated, err
	}

	user, err := uc.users.FindByTelegramID(ctx, repository.NoTX, m.TelegramID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return updated, err
	}

	var active *model.Subscription
	if user != nil {
		subs, err := uc.subs.List(ctx, user.ID)
		if err != nil {
			return updated, err
		}
		for _, s := range subs {
			// Clear stale cached flags on windows that ran out since the
			// last pass.
			if s.Active && s.IsExpiredAt(now) {
				if err := uc.subs.End(ctx, s); err != nil {
					return updated, err
				}
				updated = true
			}
			if s.IsActiveAt(now) && (active == nil || s.StartAt.After(active.StartAt)) {
				active = s
			}
		}
	}

	switch {
	case active == nil && hasVIP:
		if !settings.RoleSync {
			uc.log.Debug().Int64("tg_id", m.TelegramID).Msg("flag out of sync, rolesync off")
			return updated, nil
		}
		if err := uc.chat.SetVIP(ctx, m.TelegramID, false); err != nil {
			return updated, err
		}
		updated = true
		uc.notifier.NotifyMember(ctx, m.TelegramID, "Your VIP access has ended.")
		uc.notifier.NotifyStaff(ctx, fmt.Sprintf("VIP removed from %s (%d): subscription expired.", m.Username, m.TelegramID))

	case active != nil && !hasVIP:
		if !settings.RoleSync {
			uc.log.Debug().Int64("tg_id", m.TelegramID).Msg("flag out of sync, rolesync off")
			return updated, nil
		}
		if err := uc.chat.SetVIP(ctx, m.TelegramID, true); err != nil {
			return updated, err
		}
		updated = true
		uc.notifier.NotifyMember(ctx, m.TelegramID, "Your VIP access has been restored.")
		uc.notifier.NotifyStaff(ctx, fmt.Sprintf("VIP restored for %s (%d): active subscription found.", m.Username, m.TelegramID))

	case active != nil && active.IsExpiringSoon(now, uc.warnWindow):
		uc.notifier.NotifyMember(ctx, m.TelegramID, fmt.Sprintf(
			"Your VIP subscription expires on %s.", active.EndAt.Format("2006-01-02 15:04 MST")))
		uc.notifier.NotifyStaff(ctx, fmt.Sprintf(
			"%s's (%d) VIP subscription expires on %s.", m.Username, m.TelegramID, active.EndAt.Format("2006-01-02 15:04 MST")))
	}

	return updated, nil
}
