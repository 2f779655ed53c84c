package cache

import (
	"context"
	"log/slog"
	"time"
)

// TieredStore 是两级缓存：L1 本地 ristretto，L2 Redis。
//
// L2 命中后回填 L1，回填 TTL 取 min(本地 TTL, Redis 剩余 TTL)，
// 因此 L1 条目不会活得比绝对过期时间更久。
type TieredStore struct {
	local  *LocalStore
	remote *RedisStore
}

func NewTieredStore(local *LocalStore, remote *RedisStore) *TieredStore {
	return &TieredStore{
		local:  local,
		remote: remote,
	}
}

func (t *TieredStore) Get(ctx context.Context, key string) ([]byte, error) {
	// L1: 本地缓存
	if t.local != nil {
		if data, _ := t.local.Get(ctx, key); data != nil {
			return data, nil
		}
	}

	// L2: Redis
	data, ttl, err := t.remote.getWithTTL(ctx, key)
	if err != nil || data == nil {
		return nil, err
	}

	// 回填本地缓存；PTTL 为负表示没有过期时间或 key 刚好过期
	if t.local != nil && ttl > 0 {
		t.local.setTTL(key, data, ttl)
	}
	return data, nil
}

func (t *TieredStore) Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	// 先写 L2，失败时不留下只存在于本实例的条目
	if err := t.remote.Set(ctx, key, value, expiresAt); err != nil {
		return err
	}
	if t.local != nil {
		_ = t.local.Set(ctx, key, value, expiresAt)
	}
	return nil
}

func (t *TieredStore) Ping(ctx context.Context) error {
	return t.remote.Ping(ctx)
}

// Close 关闭本地缓存
func (t *TieredStore) Close() {
	if t.local != nil {
		t.local.Close()
		slog.Info("本地缓存已关闭")
	}
}
