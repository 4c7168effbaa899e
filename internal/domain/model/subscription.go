package model

import (
	"time"

	"telegram-vip-subscription/internal/domain"

	"github.com/google/uuid"
)

// Subscription is a user's entitlement window. The Active flag is a cached
// projection of now ∈ [StartAt, EndAt); it can go stale between mutations and
// is recomputed by lifecycle operations, never trusted for status queries.
//
// A subscription's position on the timeline is exactly one of Future, Active
// or Expired relative to a given instant:
//
//	Future:  now < start ≤ end
//	Active:  start ≤ now < end
//	Expired: end ≤ now
type Subscription struct {
	ID        string
	UserID    string
	StartAt   time.Time
	EndAt     time.Time
	Active    bool
	CreatedAt time.Time
}

// NewSubscription creates a window of d starting at start. End never precedes
// start because Days() is non-negative.
func NewSubscription(userID string, start time.Time, d *Duration) (*Subscription, error) {
	if userID == "" || d.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	s := &Subscription{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartAt:   start,
		EndAt:     start.AddDate(0, 0, d.Days()),
		CreatedAt: time.Now(),
	}
	s.Active = s.IsActiveAt(time.Now())
	return s, nil
}

func (s *Subscription) IsFutureAt(now time.Time) bool { return now.Before(s.StartAt) }

func (s *Subscription) IsActiveAt(now time.Time) bool {
	return !now.Before(s.StartAt) && now.Before(s.EndAt)
}

func (s *Subscription) IsExpiredAt(now time.Time) bool { return !now.Before(s.EndAt) }

// IsExpiringSoon reports whether an active window ends within the given
// horizon. Only meaningful for Active subscriptions.
func (s *Subscription) IsExpiringSoon(now time.Time, window time.Duration) bool {
	return s.EndAt.Before(now.Add(window))
}

// Extend moves the end date forward by the full duration and returns the
// pre-mutation end date. It never decreases the end date.
func (s *Subscription) Extend(d *Duration) time.Time {
	originalEnd := s.EndAt
	s.EndAt = s.EndAt.AddDate(0, 0, d.Days())
	s.Active = s.IsActiveAt(time.Now())
	return originalEnd
}

// ExtendFrom extends relative to an explicit new start date. If the existing
// end already lies behind the new start the whole duration is added; if the
// window still reaches past the new start only the remaining portion is added,
// so the total granted time is never double-counted:
//
//	added = max(0, days(d) - max(0, wholeDays(end - newStart)))
func (s *Subscription) ExtendFrom(newStart time.Time, d *Duration) time.Time {
	originalEnd := s.EndAt
	overlap := int(s.EndAt.Sub(newStart).Hours() / 24)
	if overlap < 0 {
		overlap = 0
	}
	if added := d.Days() - overlap; added > 0 {
		s.EndAt = s.EndAt.AddDate(0, 0, added)
	}
	s.Active = s.IsActiveAt(time.Now())
	return originalEnd
}

// Reduce pulls the end date back by the duration, clamped at now: a reduction
// can end a subscription immediately but never retroactively.
func (s *Subscription) Reduce(d *Duration, now time.Time) time.Time {
	originalEnd := s.EndAt
	reduced := s.EndAt.AddDate(0, 0, -d.Days())
	if reduced.Before(now) {
		reduced = now
	}
	s.EndAt = reduced
	s.Active = s.EndAt.After(now)
	return originalEnd
}

// Revoke neutralizes the window immediately. An active window is cut off at
// now; a future window is collapsed entirely.
func (s *Subscription) Revoke(now time.Time) time.Time {
	originalEnd := s.EndAt
	if s.IsFutureAt(now) {
		s.StartAt = now
	}
	s.EndAt = now
	s.Active = false
	return originalEnd
}

// End clears the cached active flag without touching timestamps. Used when a
// window is found to have already run out. Idempotent.
func (s *Subscription) End() { s.Active = false }
