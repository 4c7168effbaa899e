package repository

import (
	"context"

	"telegram-vip-subscription/internal/domain/model"
)

// Append-only audit ledgers. Entries are never mutated or deleted.

type GrantRepository interface {
	Save(ctx context.Context, tx Tx, g *model.Grant) error
	FindByUser(ctx context.Context, tx Tx, userID string) ([]*model.Grant, error)
}

type RevokeRepository interface {
	Save(ctx context.Context, tx Tx, r *model.Revoke) error
	FindByUser(ctx context.Context, tx Tx, userID string) ([]*model.Revoke, error)
}
