package repository

import (
	"context"
	"time"

	"telegram-vip-subscription/internal/domain/model"
)

// TrialTimerRepository persists free-trial wake-up records so pending timers
// survive a process restart.
type TrialTimerRepository interface {
	Save(ctx context.Context, tx Tx, t *model.TrialTimer) error
	FindDue(ctx context.Context, tx Tx, now time.Time) ([]*model.TrialTimer, error)
	FindByUser(ctx context.Context, tx Tx, userID string) (*model.TrialTimer, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
