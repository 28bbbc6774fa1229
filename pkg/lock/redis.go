package lock

import (
	"context"
	"time"

	"growpreen/pkg/metrics"
	"growpreen/pkg/rediskey"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisOptions struct {
	TTL        time.Duration
	Retry      int
	RetryDelay time.Duration
}

// RedisLocker is a single-instance SET NX PX lock shared by every replica.
type RedisLocker struct {
	rdb  *redis.Client
	opts RedisOptions
}

func NewRedisLocker(rdb *redis.Client, opts RedisOptions) *RedisLocker {
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.Retry <= 0 {
		opts.Retry = 1
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 50 * time.Millisecond
	}
	return &RedisLocker{rdb: rdb, opts: opts}
}

func (l *RedisLocker) Obtain(ctx context.Context, key string) (Release, error) {
	start := time.Now()
	name := rediskey.BuildLockKey(key)
	token := uuid.NewString()

	for attempt := 0; attempt < l.opts.Retry; attempt++ {
		ok, err := l.rdb.SetNX(ctx, name, token, l.opts.TTL).Result()
		if err != nil {
			metrics.RecordLockWait("redis", false, time.Since(start))
			return nil, err
		}
		if ok {
			metrics.RecordLockWait("redis", true, time.Since(start))
			return func(ctx context.Context) error {
				return releaseScript.Run(ctx, l.rdb, []string{name}, token).Err()
			}, nil
		}

		timer := time.NewTimer(l.opts.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			metrics.RecordLockWait("redis", false, time.Since(start))
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	metrics.RecordLockWait("redis", false, time.Since(start))
	return nil, ErrNotAcquired
}
