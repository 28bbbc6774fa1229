package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newRedisLocker(t *testing.T, opts RedisOptions) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLocker(rdb, opts), mr
}

func assertMutualExclusion(t *testing.T, l Locker) {
	t.Helper()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
		counter int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := Do(context.Background(), l, "user-1", func(ctx context.Context) error {
				mu.Lock()
				inside++
				if inside > maxSeen {
					maxSeen = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)
				counter++

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, maxSeen)
	require.Equal(t, 20, counter)
}

func TestLocalLockerMutualExclusion(t *testing.T) {
	assertMutualExclusion(t, NewLocalLocker())
}

func TestLocalLockerHonoursContext(t *testing.T) {
	l := NewLocalLocker()
	release, err := l.Obtain(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Obtain(ctx, "k")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, release(context.Background()))
	release, err = l.Obtain(context.Background(), "k")
	require.NoError(t, err)
	require.NoError(t, release(context.Background()))
	require.Empty(t, l.locks)
}

func TestRedisLockerMutualExclusion(t *testing.T) {
	l, _ := newRedisLocker(t, RedisOptions{TTL: time.Second, Retry: 2000, RetryDelay: time.Millisecond})
	assertMutualExclusion(t, l)
}

func TestRedisLockerNotAcquired(t *testing.T) {
	l, mr := newRedisLocker(t, RedisOptions{TTL: time.Second, Retry: 2, RetryDelay: time.Millisecond})

	release, err := l.Obtain(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, mr.Exists("lock:k"))

	_, err = l.Obtain(context.Background(), "k")
	require.ErrorIs(t, err, ErrNotAcquired)

	require.NoError(t, release(context.Background()))
	require.False(t, mr.Exists("lock:k"))
}

func TestRedisLockerReleaseKeepsForeignToken(t *testing.T) {
	l, mr := newRedisLocker(t, RedisOptions{TTL: time.Second, Retry: 1})

	release, err := l.Obtain(context.Background(), "k")
	require.NoError(t, err)

	// lease expired and someone else took it
	require.NoError(t, mr.Set("lock:k", "other"))
	require.NoError(t, release(context.Background()))

	v, err := mr.Get("lock:k")
	require.NoError(t, err)
	require.Equal(t, "other", v)
}
