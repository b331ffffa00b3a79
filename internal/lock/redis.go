package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "plp:lock:"
	defaultTTL       = 10 * time.Minute
	defaultRetry     = 200 * time.Millisecond
)

// ErrNotHeld is returned when releasing a lock whose token no longer
// matches, usually because the TTL expired and another holder took it.
var ErrNotHeld = errors.New("lock not held")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every instance connected to the same
// Redis. Locks expire after a TTL so a crashed holder cannot wedge the key.
type RedisLocker struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

// RedisOption configures a RedisLocker.
type RedisOption func(*RedisLocker)

// WithKeyPrefix sets the prefix prepended to every lock key.
func WithKeyPrefix(prefix string) RedisOption {
	return func(l *RedisLocker) {
		l.prefix = prefix
	}
}

// WithTTL sets how long an unreleased lock survives.
func WithTTL(ttl time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// WithRetryInterval sets how often Lock polls a held key.
func WithRetryInterval(d time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.retry = d
		}
	}
}

// NewRedisLocker creates a RedisLocker over client.
func NewRedisLocker(client redis.UniversalClient, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client: client,
		prefix: defaultKeyPrefix,
		ttl:    defaultTTL,
		retry:  defaultRetry,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TryLock sets the key with SET NX PX and fails fast if it exists.
func (l *RedisLocker) TryLock(ctx context.Context, key string) (Unlock, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.prefix+key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return l.unlocker(key, token), nil
}

// Lock polls TryLock until it succeeds or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		unlock, err := l.TryLock(ctx, key)
		if !errors.Is(err, ErrLocked) {
			return unlock, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) unlocker(key, token string) Unlock {
	return func(ctx context.Context) error {
		n, err := releaseScript.Run(ctx, l.client, []string{l.prefix + key}, token).Int()
		if err != nil {
			return fmt.Errorf("releasing lock %s: %w", key, err)
		}
		if n == 0 {
			return fmt.Errorf("releasing lock %s: %w", key, ErrNotHeld)
		}
		return nil
	}
}
