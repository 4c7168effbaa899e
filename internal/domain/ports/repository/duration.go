package repository

import (
	"context"

	"telegram-vip-subscription/internal/domain/model"
)

// DurationRepository serves the admin-configured allow-list of subscription
// durations. Reference data, seeded at initialization.
type DurationRepository interface {
	Save(ctx context.Context, tx Tx, d *model.Duration) error
	Find(ctx context.Context, tx Tx, magnitude int, unit model.DurationUnit) (*model.Duration, error)
	FindByID(ctx context.Context, tx Tx, id string) (*model.Duration, error)
	FindAll(ctx context.Context, tx Tx) ([]*model.Duration, error)
}
