// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired is returned when the lock stays held by someone else
// for the whole wait budget.
var ErrLockNotAcquired = errors.New("redis: lock not acquired")

// releaseScript deletes the key only if it still carries our token, so an
// expired holder never frees a lock that was re-acquired by another caller.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const lockRetryInterval = 25 * time.Millisecond

// Locker hands out TTL-bounded mutual exclusion over Redis keys.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewLocker creates a [Locker]. ttl bounds how long a crashed holder can block
// others; callers wait at most ttl for a contended lock.
func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl, wait: ttl}
}

/*
Lock blocks until key is acquired, the wait budget runs out, or context is done.

Returns:
  - func(): Releases the lock. Safe to call once; release errors are dropped
    because the TTL frees the key anyway.
  - error: [ErrLockNotAcquired] on timeout, or a wrapped Redis error.
*/
func (locker *Locker) Lock(context stdctx.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(locker.wait)

	for {
		ok, err := locker.client.SetNX(context, key, token, locker.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis: failed to acquire lock %s: %w", key, err)
		}
		if ok {
			return func() {
				// Detached from the request so a cancelled request still releases.
				releaseCtx, cancel := stdctx.WithTimeout(stdctx.Background(), writeTimeout)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, locker.client, []string{key}, token).Err()
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockNotAcquired
		}

		select {
		case <-context.Done():
			return nil, context.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}
