package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/model"
	"telegram-vip-subscription/internal/domain/ports/repository"
)

var _ CodeUseCase = (*codeUC)(nil)

const (
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 12
	codeGroup    = 4

	// DefaultCodeTTL is how long an unredeemed code stays valid.
	DefaultCodeTTL = 7 * 24 * time.Hour
)

// RedeemResult reports a successful redemption.
type RedeemResult struct {
	Code         *model.UniqueCode
	Duration     *model.Duration
	Subscription *model.Subscription
	// Extended is true when the code stacked onto an existing active window
	// instead of opening a new one.
	Extended bool
}

type CodeUseCase interface {
	// Generate mints a fresh single-use code worth the given duration.
	// Expired unredeemed codes are pruned first so their strings return to
	// the namespace.
	Generate(ctx context.Context, admin *model.User, d *model.Duration) (*model.UniqueCode, error)
	// Redeem burns a code for the calling user: mark redeemed, create or
	// extend the subscription and link the redemption, all in one
	// transaction. A failure anywhere leaves the code unredeemed.
	Redeem(ctx context.Context, user *model.User, code string) (*RedeemResult, error)
	// Inspect looks a code up without touching it. The redemption record is
	// nil for unredeemed codes.
	Inspect(ctx context.Context, code string) (*model.UniqueCode, *model.RedeemedCode, error)
}

type codeUC struct {
	codes     repository.UniqueCodeRepository
	redeemed  repository.RedeemedCodeRepository
	subs      repository.SubscriptionRepository
	grants    repository.GrantRepository
	durations repository.DurationRepository
	tm        repository.TransactionManager
	ttl       time.Duration
	log       *zerolog.Logger
}

func NewCodeUseCase(
	codes repository.UniqueCodeRepository,
	redeemed repository.RedeemedCodeRepository,
	subs repository.SubscriptionRepository,
	grants repository.GrantRepository,
	durations repository.DurationRepository,
	tm repository.TransactionManager,
	ttl time.Duration,
	logger *zerolog.Logger,
) *codeUC {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	l := logger.With().Str("component", "CodeUC").Logger()
	return &codeUC{
		codes:     codes,
		redeemed:  redeemed,
		subs:      subs,
		grants:    grants,
		durations: durations,
		tm:        tm,
		ttl:       ttl,
		log:       &l,
	}
}

func (uc *codeUC) Generate(ctx context.Context, admin *model.User, d *model.Duration) (*model.UniqueCode, error) {
	if admin.IsZero() || d.IsZero() {
		return nil, domain.ErrInvalidArgument
	}

	var out *model.UniqueCode
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		pruned, err := uc.codes.DeleteExpiredUnredeemed(ctx, tx, time.Now())
		if err != nil {
			return err
		}
		if pruned > 0 {
			uc.log.Debug().Int("pruned", pruned).Msg("reclaimed expired codes")
		}

		// 36^12 strings; retry until an unused one turns up.
		for {
			raw, err := randomCode()
			if err != nil {
				return err
			}
			if _, err := uc.codes.FindByCode(ctx, tx, raw); err == nil {
				continue
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}

			c, err := model.NewUniqueCode(raw, d, admin, uc.ttl)
			if err != nil {
				return err
			}
			if err := uc.codes.Save(ctx, tx, c); err != nil {
				return err
			}
			out = c
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("admin", admin.ID).
		Str("duration", d.Token()).
		Time("expires", out.ExpiresAt).
		Msg("code generated")
	return out, nil
}

func (uc *codeUC) Redeem(ctx context.Context, user *model.User, code string) (*RedeemResult, error) {
	if user.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	code = NormalizeCode(code)
	if code == "" {
		return nil, domain.ErrCodeNotFound
	}

	var res *RedeemResult
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		now := time.Now()

		c, err := uc.codes.FindByCode(ctx, tx, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrCodeNotFound
			}
			return err
		}
		if c.Redeemed {
			return domain.ErrCodeAlreadyRedeemed
		}
		if c.IsExpiredAt(now) {
			return domain.ErrCodeExpired
		}

		d, err := uc.durations.FindByID(ctx, tx, c.DurationID)
		if err != nil {
			return err
		}

		c.Redeemed = true
		c.RedeemedByUserID = &user.ID
		if err := uc.codes.Save(ctx, tx, c); err != nil {
			return err
		}

		sub, extended, err := uc.applyDuration(ctx, tx, user, d, now)
		if err != nil {
			return err
		}
		if err := uc.redeemed.Save(ctx, tx, model.NewRedeemedCode(c, sub)); err != nil {
			return err
		}

		res = &RedeemResult{Code: c, Duration: d, Subscription: sub, Extended: extended}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("user", user.ID).
		Str("duration", res.Duration.Token()).
		Bool("extended", res.Extended).
		Time("end", res.Subscription.EndAt).
		Msg("code redeemed")
	return res, nil
}

// applyDuration is the create-or-extend step of redemption. Redemptions are
// user actions, not admin decisions, so no grant ledger entry is written;
// the redemption record is the audit trail.
func (uc *codeUC) applyDuration(ctx context.Context, tx repository.Tx, user *model.User, d *model.Duration, now time.Time) (*model.Subscription, bool, error) {
	active, err := uc.subs.FindActiveByUser(ctx, tx, user.ID, now)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}
	if active != nil {
		active.Extend(d)
		if err := uc.subs.Save(ctx, tx, active); err != nil {
			return nil, false, err
		}
		return active, true, nil
	}

	sub, err := model.NewSubscription(user.ID, now, d)
	if err != nil {
		return nil, false, err
	}
	if err := uc.subs.Save(ctx, tx, sub); err != nil {
		return nil, false, err
	}
	return sub, false, nil
}

func (uc *codeUC) Inspect(ctx context.Context, code string) (*model.UniqueCode, *model.RedeemedCode, error) {
	code = NormalizeCode(code)
	c, err := uc.codes.FindByCode(ctx, repository.NoTX, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrCodeNotFound
		}
		return nil, nil, err
	}
	if !c.Redeemed {
		return c, nil, nil
	}
	rc, err := uc.redeemed.FindByUniqueCodeID(ctx, repository.NoTX, c.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, err
	}
	return c, rc, nil
}

// NormalizeCode uppercases user input and strips spacing so pasted codes
// match the stored XXXX-XXXX-XXXX form.
func NormalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.ReplaceAll(code, " ", "")
}

// randomCode draws 12 characters from the digit+uppercase alphabet and
// groups them XXXX-XXXX-XXXX.
func randomCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	var b strings.Builder
	for i := 0; i < codeLength; i++ {
		if i > 0 && i%codeGroup == 0 {
			b.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
