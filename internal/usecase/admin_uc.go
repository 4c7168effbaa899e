package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/adapter"
)

var _ AdminUseCase = (*adminUC)(nil)

// BulkReport summarizes a bulk admin operation.
type BulkReport struct {
	Seen    int
	Changed int
	Failed  int
}

// AdminUseCase groups the bulk operations admins run against the whole
// community. All of them are best-effort per member: failures are counted
// and logged, the sweep continues.
type AdminUseCase interface {
	// RegisterAll creates user records for every community member.
	RegisterAll(ctx context.Context) (*BulkReport, error)
	// RegisterAllVIPs grants the given duration to every member holding the
	// VIP flag without an active subscription, registering them as needed.
	RegisterAllVIPs(ctx context.Context, admin *model.User, d *model.Duration) (*BulkReport, error)
	// MassRevoke revokes every active subscription.
	MassRevoke(ctx context.Context, admin *model.User) (*BulkReport, error)
}

type adminUC struct {
	users UserUseCase
	subs  SubscriptionUseCase
	chat  adapter.ChatAdapter
	log   *zerolog.Logger
}

func NewAdminUseCase(users UserUseCase, subs SubscriptionUseCase, chat adapter.ChatAdapter, logger *zerolog.Logger) *adminUC {
	l := logger.With().Str("component", "AdminUC").Logger()
	return &adminUC{users: users, subs: subs, chat: chat, log: &l}
}

func (uc *adminUC) RegisterAll(ctx context.Context) (*BulkReport, error) {
	members, err := uc.chat.Members(ctx)
	if err != nil {
		return nil, err
	}

	report := &BulkReport{}
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Seen++
		_, isNew, err := uc.users.RegisterOrFetch(ctx, m.TelegramID, m.Username)
		if err != nil {
			report.Failed++
			uc.log.Error().Err(err).Int64("tg_id", m.TelegramID).Msg("register failed")
			continue
		}
		if isNew {
			report.Changed++
		}
	}
	return report, nil
}

func (uc *adminUC) RegisterAllVIPs(ctx context.Context, admin *model.User, d *model.Duration) (*BulkReport, error) {
	if admin.IsZero() || d.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	members, err := uc.chat.MembersWithVIP(ctx)
	if err != nil {
		return nil, err
	}

	report := &BulkReport{}
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Seen++
		user, _, err := uc.users.RegisterOrFetch(ctx, m.TelegramID, m.Username)
		if err != nil {
			report.Failed++
			uc.log.Error().Err(err).Int64("tg_id", m.TelegramID).Msg("register failed")
			continue
		}
		if _, err := uc.subs.GetActive(ctx, user.ID); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNoActiveSubscription) {
			report.Failed++
			continue
		}
		if _, err := uc.subs.Grant(ctx, admin, user, d); err != nil {
			report.Failed++
			uc.log.Error().Err(err).Str("user", user.ID).Msg("grant failed")
			continue
		}
		report.Changed++
	}
	uc.log.Info().Int("granted", report.Changed).Int("failed", report.Failed).Msg("bulk VIP registration done")
	return report, nil
}

func (uc *adminUC) MassRevoke(ctx context.Context, admin *model.User) (*BulkReport, error) {
	if admin.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	active, err := uc.subs.ListAllActive(ctx)
	if err != nil {
		return nil, err
	}

	report := &BulkReport{}
	for _, sub := range active {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Seen++
		user, err := uc.users.GetByID(ctx, sub.UserID)
		if err != nil {
			report.Failed++
			continue
		}
		if _, err := uc.subs.Revoke(ctx, admin, user); err != nil {
			if errors.Is(err, domain.ErrNoActiveSubscription) {
				continue
			}
			report.Failed++
			uc.log.Error().Err(err).Str("user", user.ID).Msg("revoke failed")
			continue
		}
		report.Changed++
	}
	uc.log.Info().Int("revoked", report.Changed).Int("failed", report.Failed).Msg("mass revoke done")
	return report, nil
}
