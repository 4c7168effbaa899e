package adapter

import (
	"context"
	"time"
)

// Locker provides cross-process mutual exclusion for jobs that must not
// overlap. TryLock returns an unlock func on success and ErrPassInProgress
// when another holder owns the key.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}
