package lotto

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Session locking strategy:
// - Acquisition uses Redis SET NX, a single network call.
// - Release goes through a Lua script so only the lock owner can delete the
//   key. Without the owner check, a client whose lock already expired could
//   delete a lock someone else now holds.

const releaseLockScript = `
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`

// SessionLockManager serializes draw sessions across processes through
// Redis locks
type SessionLockManager struct {
	client        *redis.Client
	lockTimeout   time.Duration
	retryAttempts int
	retryInterval time.Duration
	expiration    time.Duration
}

// NewSessionLockManager creates a lock manager. A nil config gets the
// defaults.
func NewSessionLockManager(client *redis.Client, config *EngineConfig) *SessionLockManager {
	if config == nil {
		config = DefaultEngineConfig()
	}
	return &SessionLockManager{
		client:        client,
		lockTimeout:   config.LockTimeout,
		retryAttempts: config.RetryAttempts,
		retryInterval: config.RetryInterval,
		expiration:    config.LockExpiration,
	}
}

// Acquire takes the lock for the given key, retrying up to the configured
// number of attempts. On success it returns a release function bound to this
// acquisition; the release is owner-checked, so it never deletes a lock this
// acquisition no longer holds.
func (m *SessionLockManager) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	if key == "" {
		return nil, ErrInvalidParameters.WithDetails("lock key is empty")
	}
	if ttl <= 0 {
		ttl = m.expiration
	}

	fullKey := LockKeyPrefix + key
	value := generateLockValue()

	for attempt := 0; attempt <= m.retryAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		acquired, err := m.client.SetNX(ctx, fullKey, value, ttl).Result()
		if err != nil {
			if attempt == m.retryAttempts {
				return nil, ErrRedisConnectionFailed.WithCause(err)
			}
			time.Sleep(m.retryInterval)
			continue
		}

		if acquired {
			return m.releaseFunc(fullKey, value), nil
		}

		if attempt < m.retryAttempts {
			time.Sleep(m.retryInterval)
		}
	}

	return nil, ErrLockAcquisitionFailed
}

// TryAcquire takes the lock in a single attempt, without retries
func (m *SessionLockManager) TryAcquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	if key == "" {
		return nil, ErrInvalidParameters.WithDetails("lock key is empty")
	}
	if ttl <= 0 {
		ttl = m.expiration
	}

	fullKey := LockKeyPrefix + key
	value := generateLockValue()

	acquired, err := m.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		return nil, ErrRedisConnectionFailed.WithCause(err)
	}
	if !acquired {
		return nil, ErrLockAcquisitionFailed
	}

	return m.releaseFunc(fullKey, value), nil
}

// AcquireWithTimeout keeps retrying until the lock is taken or the timeout
// elapses. A timeout of 0 or less selects the configured lock timeout.
func (m *SessionLockManager) AcquireWithTimeout(ctx context.Context, key string, ttl, timeout time.Duration) (func(context.Context) error, error) {
	if key == "" {
		return nil, ErrInvalidParameters.WithDetails("lock key is empty")
	}
	if ttl <= 0 {
		ttl = m.expiration
	}
	if timeout <= 0 {
		timeout = m.lockTimeout
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fullKey := LockKeyPrefix + key
	value := generateLockValue()

	for {
		select {
		case <-timeoutCtx.Done():
			return nil, ErrLockTimeout
		default:
		}

		acquired, err := m.client.SetNX(timeoutCtx, fullKey, value, ttl).Result()
		if err != nil {
			if timeoutCtx.Err() != nil {
				return nil, ErrLockTimeout
			}
			time.Sleep(m.retryInterval)
			continue
		}

		if acquired {
			return m.releaseFunc(fullKey, value), nil
		}

		time.Sleep(m.retryInterval)
	}
}

func (m *SessionLockManager) releaseFunc(fullKey, value string) func(context.Context) error {
	return func(ctx context.Context) error {
		result, err := m.client.Eval(ctx, releaseLockScript, []string{fullKey}, value).Result()
		if err != nil {
			return ErrRedisConnectionFailed.WithCause(err)
		}
		if n, ok := result.(int64); !ok || n != 1 {
			// The lock expired or was taken over. Nothing to delete.
			return ErrLockReleaseFailure
		}
		return nil
	}
}
