package lock

import (
	"context"
	"errors"

	"growpreen/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrNotAcquired is returned when the lock could not be taken before retries ran out.
var ErrNotAcquired = errors.New("lock: not acquired")

// Release gives the lock back. It is safe to call once.
type Release func(ctx context.Context) error

// Locker provides mutual exclusion keyed by an arbitrary string.
type Locker interface {
	Obtain(ctx context.Context, key string) (Release, error)
}

// Do runs fn while holding key.
func Do(ctx context.Context, l Locker, key string, fn func(ctx context.Context) error) error {
	release, err := l.Obtain(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			zap.L().Warn("failed to release lock", zap.String("key", key), zap.Error(rerr))
		}
	}()
	return fn(ctx)
}

var Module = fx.Module("lock",
	fx.Provide(New),
)

type Params struct {
	fx.In

	Config *config.Config
	Redis  *redis.Client `optional:"true"`
}

func New(p Params) Locker {
	if p.Config.Lock.Backend == "redis" && p.Config.Redis.Enable && p.Redis != nil {
		zap.L().Info("[Lock] using redis locker", zap.Duration("ttl", p.Config.Lock.TTL))
		return NewRedisLocker(p.Redis, RedisOptions{
			TTL:        p.Config.Lock.TTL,
			Retry:      p.Config.Lock.Retry,
			RetryDelay: p.Config.Lock.RetryDelay,
		})
	}
	zap.L().Info("[Lock] using in-process locker")
	return NewLocalLocker()
}
