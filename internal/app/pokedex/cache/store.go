package cache

import (
	"context"
	"time"
)

// Store 是按字节读写的外部缓存。
//
// 约定：
// - Get 未命中返回 (nil, nil)，只有存储本身故障才返回 error
// - Set 使用绝对过期时间（不是滑动过期）
// - 实现必须并发安全；同 key 并发写入时最后一次写入生效
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error
}

// Pinger 由可探活的存储实现，供 /readyz 使用。
type Pinger interface {
	Ping(ctx context.Context) error
}
