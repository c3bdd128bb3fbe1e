package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T, ttl, wait time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zerolog.Nop()
	return NewRedisLocker(client, ttl, wait, &logger), s
}

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("AcquireAndRelease", func(t *testing.T) {
		l, s := newTestLocker(t, time.Second, 100*time.Millisecond)

		unlock, err := l.Lock(ctx, "booking:employee:1")
		require.NoError(t, err)
		assert.True(t, s.Exists("booking:employee:1"))

		unlock()
		assert.False(t, s.Exists("booking:employee:1"))
	})

	t.Run("ContendedTimesOut", func(t *testing.T) {
		l, _ := newTestLocker(t, time.Second, 60*time.Millisecond)

		unlock, err := l.Lock(ctx, "k")
		require.NoError(t, err)
		defer unlock()

		_, err = l.Lock(ctx, "k")
		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("WaiterGetsLockAfterRelease", func(t *testing.T) {
		l, _ := newTestLocker(t, time.Second, time.Second)

		unlock, err := l.Lock(ctx, "k")
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			unlock()
		}()

		unlock2, err := l.Lock(ctx, "k")
		require.NoError(t, err)
		unlock2()
	})

	t.Run("ExpiredHolderCannotReleaseNewOwner", func(t *testing.T) {
		l, s := newTestLocker(t, time.Second, 100*time.Millisecond)

		stale, err := l.Lock(ctx, "k")
		require.NoError(t, err)

		s.FastForward(2 * time.Second)

		fresh, err := l.Lock(ctx, "k")
		require.NoError(t, err)
		defer fresh()

		stale()
		assert.True(t, s.Exists("k"))
	})
}
