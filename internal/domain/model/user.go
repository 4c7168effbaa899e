package model

import (
	"time"

	"telegram-vip-subscription/internal/domain"

	"github.com/google/uuid"
)

// User is a community member known to the system. Users are created lazily on
// first interaction and never deleted; only the display name is refreshed.
type User struct {
	ID           string
	TelegramID   int64
	Username     string
	RegisteredAt time.Time
}

func NewUser(id string, tgID int64, username string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if username == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:           id,
		TelegramID:   tgID,
		Username:     username,
		RegisteredAt: time.Now(),
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
