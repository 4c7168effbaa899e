package repository

import (
	"context"
	"time"

	"telegram-vip-subscription/internal/domain/model"
)

// UniqueCodeRepository manages activation codes. The code string is unique
// among live (unexpired-or-redeemed) codes; expired unredeemed codes are
// reclaimable and pruned before new-code generation.
type UniqueCodeRepository interface {
	Save(ctx context.Context, tx Tx, c *model.UniqueCode) error
	FindByCode(ctx context.Context, tx Tx, code string) (*model.UniqueCode, error)
	// DeleteExpiredUnredeemed reclaims the namespace of codes that are both
	// unredeemed and past expiry. Returns the number pruned.
	DeleteExpiredUnredeemed(ctx context.Context, tx Tx, now time.Time) (int, error)
}

type RedeemedCodeRepository interface {
	Save(ctx context.Context, tx Tx, rc *model.RedeemedCode) error
	FindByUniqueCodeID(ctx context.Context, tx Tx, codeID string) (*model.RedeemedCode, error)
}
