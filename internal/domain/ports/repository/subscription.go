package repository

import (
	"context"
	"time"

	"telegram-vip-subscription/internal/domain/model"
)

// SubscriptionRepository is the port for entitlement windows. Historical rows
// persist forever; expiry is a status, not a deletion.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Subscription) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Subscription, error)
	// FindActiveByUser returns the currently-valid window with the greatest
	// start date, or ErrNotFound. Callers must tolerate historical
	// overlapping rows; this is a query, not a uniqueness guarantee.
	FindActiveByUser(ctx context.Context, tx Tx, userID string, now time.Time) (*model.Subscription, error)
	FindByUser(ctx context.Context, tx Tx, userID string) ([]*model.Subscription, error)
	FindAllActive(ctx context.Context, tx Tx, now time.Time) ([]*model.Subscription, error)
	CountActive(ctx context.Context, tx Tx, now time.Time) (int, error)
}
