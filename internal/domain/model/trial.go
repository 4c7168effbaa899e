package model

import (
	"time"

	"telegram-vip-subscription/internal/domain"

	"github.com/google/uuid"
)

// TrialTimer is a durable wake-up record for a free-trial window handed out on
// join. Persisting the deadline means a process restart re-arms pending
// timers instead of losing them; a timer that expired during downtime fires
// on the next sweep with its original deadline intact.
type TrialTimer struct {
	ID        string
	UserID    string
	StartedAt time.Time
	ExpiresAt time.Time
}

func NewTrialTimer(user *User, window time.Duration) (*TrialTimer, error) {
	if user.IsZero() || window <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &TrialTimer{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		StartedAt: now,
		ExpiresAt: now.Add(window),
	}, nil
}

func (t *TrialTimer) IsDueAt(now time.Time) bool { return !t.ExpiresAt.After(now) }
