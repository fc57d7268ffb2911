// Package lock provides a Redis-backed mutual exclusion lock so that two
// runs of the same job never load the target tables at the same time.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrHeld is returned by Acquire when another owner holds the lock.
var ErrHeld = errors.New("lock: held by another run")

// releaseLuaScript deletes the key only if it still carries our token.
const releaseLuaScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisLock is a single-key lease. The zero value is not usable; use New.
type RedisLock struct {
	client  redis.UniversalClient
	key     string
	ttl     time.Duration
	token   string
	release *redis.Script
}

// New returns a lock on key with the given lease. The token identifies this
// process as owner.
func New(client redis.UniversalClient, key string, ttl time.Duration) *RedisLock {
	return &RedisLock{
		client:  client,
		key:     key,
		ttl:     ttl,
		token:   uuid.NewString(),
		release: redis.NewScript(releaseLuaScript),
	}
}

// Key returns the Redis key guarded by the lock.
func (l *RedisLock) Key() string { return l.key }

// Acquire takes the lease with SET NX PX. It returns ErrHeld if the key
// already exists.
func (l *RedisLock) Acquire(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("lock: acquire %s: %w", l.key, err)
	}
	if !ok {
		return ErrHeld
	}
	return nil
}

// Release drops the lease if this lock still owns it. Releasing an expired
// or foreign lease is not an error.
func (l *RedisLock) Release(ctx context.Context) error {
	if err := l.release.Run(ctx, l.client, []string{l.key}, l.token).Err(); err != nil {
		return fmt.Errorf("lock: release %s: %w", l.key, err)
	}
	return nil
}
