package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"telegram-vip-subscription/internal/domain"
	"telegram-vip-subscription/internal/domain/ports/adapter"
)

var _ adapter.Locker = (*Locker)(nil)

// Locker is a SetNX lease. Contention is reported immediately rather than
// waited out: the callers are periodic jobs that simply skip an overlapping
// firing.
type Locker struct {
	cli *redis.Client
}

func NewLocker(c *Client) *Locker {
	return &Locker{cli: c.cli}
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	ok, err := l.cli.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPassInProgress
	}
	return func() {
		// Release only our own lease; an expired one may belong to someone
		// else by now.
		_, _ = luaUnlock.Run(context.Background(), l.cli, []string{key}, token).Result()
	}, nil
}

var luaUnlock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)
