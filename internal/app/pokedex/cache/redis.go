package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"pokedex.local/internal/platform/metrics"
)

// RedisStore 把条目写入 Redis，使用 EXAT 绝对过期。
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheOperations.WithLabelValues("l2", "miss").Inc()
		return nil, nil // 缓存未命中
	}
	if err != nil {
		metrics.CacheOperations.WithLabelValues("l2", "error").Inc()
		return nil, err
	}
	metrics.CacheOperations.WithLabelValues("l2", "hit").Inc()
	return data, nil
}

// getWithTTL 在一次 pipeline 里同时取值和剩余 TTL，供 L1 回填时使用。
func (r *RedisStore) getWithTTL(ctx context.Context, key string) ([]byte, time.Duration, error) {
	var get *redis.StringCmd
	var pttl *redis.DurationCmd
	_, err := r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		get = p.Get(ctx, key)
		pttl = p.PTTL(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.CacheOperations.WithLabelValues("l2", "error").Inc()
		return nil, 0, err
	}
	data, err := get.Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheOperations.WithLabelValues("l2", "miss").Inc()
		return nil, 0, nil
	}
	if err != nil {
		metrics.CacheOperations.WithLabelValues("l2", "error").Inc()
		return nil, 0, err
	}
	metrics.CacheOperations.WithLabelValues("l2", "hit").Inc()
	return data, pttl.Val(), nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	if !expiresAt.After(time.Now()) {
		return r.client.Del(ctx, key).Err()
	}
	if err := r.client.SetArgs(ctx, key, value, redis.SetArgs{ExpireAt: expiresAt}).Err(); err != nil {
		metrics.CacheOperations.WithLabelValues("l2", "error").Inc()
		return err
	}
	metrics.CacheOperations.WithLabelValues("l2", "set").Inc()
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
