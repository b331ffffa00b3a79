//go:build integration

package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/price-list-publisher/internal/lock"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	return client
}

func TestRedisLocker(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	a := lock.NewRedisLocker(client, lock.WithRetryInterval(10*time.Millisecond))
	b := lock.NewRedisLocker(client, lock.WithRetryInterval(10*time.Millisecond))

	unlock, err := a.TryLock(ctx, "run")
	require.NoError(t, err)

	_, err = b.TryLock(ctx, "run")
	require.ErrorIs(t, err, lock.ErrLocked)

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = b.Lock(waitCtx, "run")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))
	require.ErrorIs(t, unlock(ctx), lock.ErrNotHeld)

	unlockB, err := b.Lock(ctx, "run")
	require.NoError(t, err)
	require.NoError(t, unlockB(ctx))
}

func TestRedisLocker_TTLExpires(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	l := lock.NewRedisLocker(client, lock.WithTTL(50*time.Millisecond), lock.WithKeyPrefix("test:"))

	_, err := l.TryLock(ctx, "apple")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		unlock, err := l.TryLock(ctx, "apple")
		if err != nil {
			return false
		}
		return unlock(ctx) == nil
	}, 2*time.Second, 20*time.Millisecond)
}
