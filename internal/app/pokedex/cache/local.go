package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"pokedex.local/internal/platform/metrics"
)

// LocalStore 基于 ristretto 的本地内存缓存
type LocalStore struct {
	cache  *ristretto.Cache
	maxTTL time.Duration
}

// NewLocalStore 创建本地缓存
// maxItems: 最大缓存条目数（建议 10000-100000）
// maxCost: 最大内存占用（字节，建议 16MB-64MB），按 payload 字节数计费
// maxTTL: 单条目最长存活时间，<=0 表示只受绝对过期时间约束
func NewLocalStore(maxItems int64, maxCost int64, maxTTL time.Duration) (*LocalStore, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10, // 计数器数量，建议为 maxItems 的 10 倍
		MaxCost:     maxCost,
		BufferItems: 64, // 每个 Get 缓冲区大小
	})
	if err != nil {
		return nil, err
	}
	return &LocalStore{
		cache:  cache,
		maxTTL: maxTTL,
	}, nil
}

func (l *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := l.cache.Get(key); ok {
		if data, ok := v.([]byte); ok {
			metrics.CacheOperations.WithLabelValues("l1", "hit").Inc()
			return data, nil
		}
	}
	metrics.CacheOperations.WithLabelValues("l1", "miss").Inc()
	return nil, nil
}

func (l *LocalStore) Set(_ context.Context, key string, value []byte, expiresAt time.Time) error {
	l.setTTL(key, value, time.Until(expiresAt))
	return nil
}

func (l *LocalStore) setTTL(key string, value []byte, ttl time.Duration) {
	if l.maxTTL > 0 && ttl > l.maxTTL {
		ttl = l.maxTTL
	}
	if ttl <= 0 {
		l.cache.Del(key)
		return
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	l.cache.SetWithTTL(key, buf, int64(len(buf))+1, ttl)
	// ristretto 的写入是异步的，Wait 之后同一实例内可以立刻读到
	l.cache.Wait()
	metrics.CacheOperations.WithLabelValues("l1", "set").Inc()
}

func (l *LocalStore) Ping(context.Context) error {
	return nil
}

func (l *LocalStore) Close() {
	l.cache.Close()
}
