package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/repository"
)

var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// GrantResult reports a grant/extension. OriginalEnd is the pre-mutation end
// date; Extended is false when a fresh window was created.
type GrantResult struct {
	Subscription *model.Subscription
	OriginalEnd  time.Time
	Extended     bool
}

// RevokeResult mirrors GrantResult for revocations/reductions.
type RevokeResult struct {
	Subscription *model.Subscription
	OriginalEnd  time.Time
	Reduced      bool
}

// SubscriptionUseCase owns the entitlement-window lifecycle. Every mutation
// is persisted together with its Grant/Revoke audit record in a single
// transaction; the pairing is mandatory.
type SubscriptionUseCase interface {
	// GetActive selects the currently-active window with the greatest start
	// date, or ErrNoActiveSubscription. Future (not-yet-started) windows are
	// never treated as active; this rule is applied uniformly.
	GetActive(ctx context.Context, userID string) (*model.Subscription, error)
	List(ctx context.Context, userID string) ([]*model.Subscription, error)

	// Grant creates a window starting now, or extends the user's active one
	// by the full duration. Writes a grant/extend audit record.
	Grant(ctx context.Context, admin, user *model.User, d *model.Duration) (*GrantResult, error)
	// GrantAt is Grant with a caller-supplied start date (backdated or
	// future grants). When an active window exists, only the portion of the
	// duration not already covered past start is added.
	GrantAt(ctx context.Context, admin, user *model.User, start time.Time, d *model.Duration) (*GrantResult, error)
	// Reduce pulls the active window's end back by the duration, clamped at
	// now. ErrNoActiveSubscription when there is nothing to act on.
	Reduce(ctx context.Context, admin, user *model.User, d *model.Duration) (*RevokeResult, error)
	// Revoke immediately neutralizes the user's active window.
	Revoke(ctx context.Context, admin, user *model.User) (*RevokeResult, error)
	// End clears the cached active flag on an already-expired window. No
	// audit record: it records a fact, not an admin decision. Idempotent.
	End(ctx context.Context, sub *model.Subscription) error

	CountActive(ctx context.Context) (int, error)
	ListAllActive(ctx context.Context) ([]*model.Subscription, error)
}

type subscriptionUC struct {
	subs    repository.SubscriptionRepository
	grants  repository.GrantRepository
	revokes repository.RevokeRepository
	tm      repository.TransactionManager
	log     *zerolog.Logger
}

func NewSubscriptionUseCase(
	subs repository.SubscriptionRepository,
	grants repository.GrantRepository,
	revokes repository.RevokeRepository,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
) *subscriptionUC {
	l := logger.With().Str("component", "SubscriptionUC").Logger()
	return &subscriptionUC{subs: subs, grants: grants, revokes: revokes, tm: tm, log: &l}
}

func (uc *subscriptionUC) GetActive(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := uc.subs.FindActiveByUser(ctx, repository.NoTX, userID, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoActiveSubscription
		}
		return nil, err
	}
	return sub, nil
}

func (uc *subscriptionUC) List(ctx context.Context, userID string) ([]*model.Subscription, error) {
	return uc.subs.FindByUser(ctx, repository.NoTX, userID)
}

func (uc *subscriptionUC) Grant(ctx context.Context, admin, user *model.User, d *model.Duration) (*GrantResult, error) {
	return uc.grant(ctx, admin, user, time.Now(), d, false)
}

func (uc *subscriptionUC) GrantAt(ctx context.Context, admin, user *model.User, start time.Time, d *model.Duration) (*GrantResult, error) {
	return uc.grant(ctx, admin, user, start, d, true)
}

// grant runs the create-or-extend decision inside one transaction: the
// re-read of the active window, the mutation and the audit record either all
// land or none do.
func (uc *subscriptionUC) grant(ctx context.Context, admin, user *model.User, start time.Time, d *model.Duration, explicitStart bool) (*GrantResult, error) {
	if admin.IsZero() || user.IsZero() || d.IsZero() {
		return nil, domain.ErrInvalidArgument
	}

	var res *GrantResult
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		active, err := uc.subs.FindActiveByUser(ctx, tx, user.ID, time.Now())
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if active != nil {
			var originalEnd time.Time
			if explicitStart {
				originalEnd = active.ExtendFrom(start, d)
			} else {
				originalEnd = active.Extend(d)
			}
			if err := uc.subs.Save(ctx, tx, active); err != nil {
				return err
			}
			g := model.NewGrant(model.GrantActionExtend, originalEnd, active.EndAt, d, active, admin.ID)
			if err := uc.grants.Save(ctx, tx, g); err != nil {
				return err
			}
			res = &GrantResult{Subscription: active, OriginalEnd: originalEnd, Extended: true}
			return nil
		}

		sub, err := model.NewSubscription(user.ID, start, d)
		if err != nil {
			return err
		}
		if err := uc.subs.Save(ctx, tx, sub); err != nil {
			return err
		}
		g := model.NewGrant(model.GrantActionGrant, sub.EndAt, sub.EndAt, d, sub, admin.ID)
		if err := uc.grants.Save(ctx, tx, g); err != nil {
			return err
		}
		res = &GrantResult{Subscription: sub, OriginalEnd: sub.EndAt, Extended: false}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("admin", admin.ID).
		Str("user", user.ID).
		Str("duration", d.Token()).
		Bool("extended", res.Extended).
		Time("end", res.Subscription.EndAt).
		Msg("subscription granted")
	return res, nil
}

func (uc *subscriptionUC) Reduce(ctx context.Context, admin, user *model.User, d *model.Duration) (*RevokeResult, error) {
	if admin.IsZero() || user.IsZero() || d.IsZero() {
		return nil, domain.ErrInvalidArgument
	}

	var res *RevokeResult
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		now := time.Now()
		active, err := uc.subs.FindActiveByUser(ctx, tx, user.ID, now)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNoActiveSubscription
			}
			return err
		}

		originalEnd := active.Reduce(d, now)
		if err := uc.subs.Save(ctx, tx, active); err != nil {
			return err
		}
		r := model.NewRevoke(model.RevokeActionReduce, originalEnd, d, active, admin.ID)
		if err := uc.revokes.Save(ctx, tx, r); err != nil {
			return err
		}
		res = &RevokeResult{Subscription: active, OriginalEnd: originalEnd, Reduced: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("admin", admin.ID).
		Str("user", user.ID).
		Str("duration", d.Token()).
		Time("end", res.Subscription.EndAt).
		Msg("subscription reduced")
	return res, nil
}

func (uc *subscriptionUC) Revoke(ctx context.Context, admin, user *model.User) (*RevokeResult, error) {
	if admin.IsZero() || user.IsZero() {
		return nil, domain.ErrInvalidArgument
	}

	var res *RevokeResult
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		now := time.Now()
		active, err := uc.subs.FindActiveByUser(ctx, tx, user.ID, now)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNoActiveSubscription
			}
			return err
		}

		originalEnd := active.Revoke(now)
		if err := uc.subs.Save(ctx, tx, active); err != nil {
			return err
		}
		r := model.NewRevoke(model.RevokeActionRevoke, originalEnd, nil, active, admin.ID)
		if err := uc.revokes.Save(ctx, tx, r); err != nil {
			return err
		}
		res = &RevokeResult{Subscription: active, OriginalEnd: originalEnd}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("admin", admin.ID).Str("user", user.ID).Msg("subscription revoked")
	return res, nil
}

func (uc *subscriptionUC) End(ctx context.Context, sub *model.Subscription) error {
	if sub == nil {
		return domain.ErrInvalidArgument
	}
	sub.End()
	return uc.subs.Save(ctx, repository.NoTX, sub)
}

func (uc *subscriptionUC) CountActive(ctx context.Context) (int, error) {
	return uc.subs.CountActive(ctx, repository.NoTX, time.Now())
}

func (uc *subscriptionUC) ListAllActive(ctx context.Context) ([]*model.Subscription, error) {
	return uc.subs.FindAllActive(ctx, repository.NoTX, time.Now())
}
