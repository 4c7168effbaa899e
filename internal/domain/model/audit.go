package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type GrantAction string

const (
	GrantActionGrant  GrantAction = "grant"
	GrantActionExtend GrantAction = "extend"
)

type RevokeAction string

const (
	RevokeActionRevoke RevokeAction = "revoke"
	RevokeActionReduce RevokeAction = "reduce"
)

// Grant is an append-only ledger entry recording an admin-performed grant or
// extension, with the end date before and after the mutation.
type Grant struct {
	ID             string
	Action         GrantAction
	OriginalEndAt  time.Time
	NewEndAt       time.Time
	DurationID     string
	SubscriptionID string
	AdminID        string
	UserID         string
	At             time.Time
}

func NewGrant(action GrantAction, originalEnd, newEnd time.Time, d *Duration, sub *Subscription, adminID string) *Grant {
	return &Grant{
		ID:             ulid.Make().String(),
		Action:         action,
		OriginalEndAt:  originalEnd,
		NewEndAt:       newEnd,
		DurationID:     d.ID,
		SubscriptionID: sub.ID,
		AdminID:        adminID,
		UserID:         sub.UserID,
		At:             time.Now(),
	}
}

// Revoke mirrors Grant for revocations and reductions. DurationID is empty
// for a bare revoke.
type Revoke struct {
	ID             string
	Action         RevokeAction
	OriginalEndAt  time.Time
	NewEndAt       time.Time
	DurationID     string
	SubscriptionID string
	AdminID        string
	UserID         string
	At             time.Time
}

func NewRevoke(action RevokeAction, originalEnd time.Time, d *Duration, sub *Subscription, adminID string) *Revoke {
	r := &Revoke{
		ID:             ulid.Make().String(),
		Action:         action,
		OriginalEndAt:  originalEnd,
		NewEndAt:       sub.EndAt,
		SubscriptionID: sub.ID,
		AdminID:        adminID,
		UserID:         sub.UserID,
		At:             time.Now(),
	}
	if d != nil {
		r.DurationID = d.ID
	}
	return r
}
