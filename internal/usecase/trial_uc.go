package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/adapter"
	"telegram-vip-subscription/internal/domain/ports/repository"
)

var _ TrialUseCase = (*trialUC)(nil)

// DefaultTrialWindow is the free-trial length for newly joined members.
const DefaultTrialWindow = 5 * time.Minute

// TrialUseCase hands new members a short taste of VIP access. The wake-up
// record is persisted so a restart never leaves a trial flag stuck on: the
// sweep picks up where the process left off, keeping the original deadline.
type TrialUseCase interface {
	// Begin starts a trial for a joining member. Members with a trial
	// already pending, or holding a real subscription, are skipped (nil, nil).
	Begin(ctx context.Context, member adapter.Member) (*model.TrialTimer, error)
	// Sweep fires all due timers: the flag comes off unless the member
	// gained a real subscription during the trial. Returns the number fired.
	Sweep(ctx context.Context) (int, error)
}

type trialUC struct {
	users    UserUseCase
	trials   repository.TrialTimerRepository
	subs     SubscriptionUseCase
	chat     adapter.ChatAdapter
	notifier *Notifier
	window   time.Duration
	log      *zerolog.Logger
}

func NewTrialUseCase(
	users UserUseCase,
	trials repository.TrialTimerRepository,
	subs SubscriptionUseCase,
	chat adapter.ChatAdapter,
	notifier *Notifier,
	window time.Duration,
	logger *zerolog.Logger,
) *trialUC {
	if window <= 0 {
		window = DefaultTrialWindow
	}
	l := logger.With().Str("component", "TrialUC").Logger()
	return &trialUC{
		users:    users,
		trials:   trials,
		subs:     subs,
		chat:     chat,
		notifier: notifier,
		window:   window,
		log:      &l,
	}
}

func (uc *trialUC) Begin(ctx context.Context, member adapter.Member) (*model.TrialTimer, error) {
	user, _, err := uc.users.RegisterOrFetch(ctx, member.TelegramID, member.Username)
	if err != nil {
		return nil, err
	}

	// At most one pending trial per user.
	if _, err := uc.trials.FindByUser(ctx, repository.NoTX, user.ID); err == nil {
		return nil, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if _, err := uc.subs.GetActive(ctx, user.ID); err == nil {
		return nil, nil
	} else if !errors.Is(err, domain.ErrNoActiveSubscription) {
		return nil, err
	}

	timer, err := model.NewTrialTimer(user, uc.window)
	if err != nil {
		return nil, err
	}
	if err := uc.trials.Save(ctx, repository.NoTX, timer); err != nil {
		return nil, err
	}
	if err := uc.chat.SetVIP(ctx, member.TelegramID, true); err != nil {
		return nil, err
	}

	uc.notifier.NotifyMember(ctx, member.TelegramID,
		"Welcome! You have temporary VIP access so you can look around.")
	uc.log.Info().
		Str("user", user.ID).
		Time("expires", timer.ExpiresAt).
		Msg("trial started")
	return timer, nil
}

func (uc *trialUC) Sweep(ctx context.Context) (int, error) {
	due, err := uc.trials.FindDue(ctx, repository.NoTX, time.Now())
	if err != nil {
		return 0, err
	}

	fired := 0
	for _, timer := range due {
		if err := ctx.Err(); err != nil {
			return fired, err
		}
		if err := uc.fire(ctx, timer); err != nil {
			uc.log.Error().Err(err).Str("user", timer.UserID).Msg("trial expiry failed")
			continue
		}
		fired++
	}
	return fired, nil
}

func (uc *trialUC) fire(ctx context.Context, timer *model.TrialTimer) error {
	user, err := uc.users.GetByID(ctx, timer.UserID)
	if err != nil {
		return err
	}

	keep := false
	if _, err := uc.subs.GetActive(ctx, user.ID); err == nil {
		keep = true
	} else if !errors.Is(err, domain.ErrNoActiveSubscription) {
		return err
	}

	if !keep {
		if err := uc.chat.SetVIP(ctx, user.TelegramID, false); err != nil {
			return err
		}
		uc.notifier.NotifyMember(ctx, user.TelegramID,
			"Your trial VIP access has ended. Redeem a code to keep it.")
	}

	if err := uc.trials.Delete(ctx, repository.NoTX, timer.ID); err != nil {
		return err
	}
	uc.log.Info().Str("user", user.ID).Bool("kept", keep).Msg("trial ended")
	return nil
}
