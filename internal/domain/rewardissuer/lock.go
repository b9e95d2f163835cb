package rewardissuer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/challenge/pkg/xcontext"
	"github.com/redis/go-redis/v9"
)

// Locker serialises work on a key across concurrent callers.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type localLocker struct {
	locks *xsync.MapOf[string, chan struct{}]
}

// NewLocalLocker only serialises callers of the same process.
func NewLocalLocker() *localLocker {
	return &localLocker{locks: xsync.NewMapOf[chan struct{}]()}
}

func (l *localLocker) Lock(ctx context.Context, key string) (func(), error) {
	held := make(chan struct{})
	for {
		current, loaded := l.locks.LoadOrStore(key, held)
		if !loaded {
			return func() {
				l.locks.Delete(key)
				close(held)
			}, nil
		}

		select {
		case <-current:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

const redisLockRetryInterval = 50 * time.Millisecond

var redisUnlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker holds keys with SET NX. A key expires after ttl if its
// holder dies without unlocking.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *redisLocker {
	return &redisLocker{client: client, ttl: ttl}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}

		if ok {
			return func() {
				err := redisUnlockScript.Run(context.WithoutCancel(ctx), l.client, []string{key}, token).Err()
				if err != nil && !errors.Is(err, redis.Nil) {
					xcontext.Logger(ctx).Warnf("Cannot release lock %s: %v", key, err)
				}
			}, nil
		}

		select {
		case <-time.After(redisLockRetryInterval):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
