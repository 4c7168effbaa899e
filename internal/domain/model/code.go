package model

import (
	"time"

	"telegram-vip-subscription/internal/domain"

	"github.com/google/uuid"
)

// UniqueCode is a single-use token redeemable for a Duration's worth of VIP
// time. The expiry window is fixed at issuance and independent of the
// duration the code grants. Once redeemed a code is immutable.
type UniqueCode struct {
	ID               string
	Code             string
	DurationID       string
	AdminID          string // issuing admin
	Redeemed         bool
	RedeemedByUserID *string
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

func NewUniqueCode(code string, duration *Duration, admin *User, validFor time.Duration) (*UniqueCode, error) {
	if code == "" || duration.IsZero() || admin.IsZero() || validFor <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &UniqueCode{
		ID:         uuid.NewString(),
		Code:       code,
		DurationID: duration.ID,
		AdminID:    admin.ID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(validFor),
	}, nil
}

// IsExpiredAt pins the boundary: a code whose expiry equals now is expired.
func (c *UniqueCode) IsExpiredAt(now time.Time) bool { return !c.ExpiresAt.After(now) }

// RedeemedCode links a redeemed code to the subscription it produced.
// Created exactly once per successful redemption, never mutated.
type RedeemedCode struct {
	ID             string
	UniqueCodeID   string
	SubscriptionID string
	RedeemedAt     time.Time
}

func NewRedeemedCode(code *UniqueCode, sub *Subscription) *RedeemedCode {
	return &RedeemedCode{
		ID:             uuid.NewString(),
		UniqueCodeID:   code.ID,
		SubscriptionID: sub.ID,
		RedeemedAt:     time.Now(),
	}
}
