package source

import (
	"context"
	"time"

	"call-history/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// Limiter bounds concurrent upstream fetches.
type Limiter interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// RedisLimiter shares one cap across every instance using the Redis counter.
type RedisLimiter struct {
	rdb   *redis.Client
	key   string
	limit int
	ttl   time.Duration
}

func NewRedisLimiter(rdb *redis.Client, limit int, ttl time.Duration) *RedisLimiter {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLimiter{rdb: rdb, key: "call-history:upstream:inflight", limit: limit, ttl: ttl}
}

func (l *RedisLimiter) Acquire(ctx context.Context) (func(), error) {
	ok, err := utils.AcquireConcurrencyCap(ctx, l.rdb, l.key, l.limit, l.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBusy
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = utils.ReleaseConcurrencyCap(ctx, l.rdb, l.key)
	}, nil
}
