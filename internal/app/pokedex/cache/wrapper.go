package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pokedex.local/internal/app/pokedex"
	"pokedex.local/internal/platform/metrics"
)

// Wrapper 在字节存储之上提供按类型的 get/set，负责 JSON 编解码。
//
// 无法解码的缓存内容按未命中处理，不会让读路径失败。
type Wrapper[T any] struct {
	store Store
}

func NewWrapper[T any](store Store) *Wrapper[T] {
	return &Wrapper[T]{store: store}
}

// Get 返回 nil 表示未命中（包括空值与损坏的条目）。
func (w *Wrapper[T]) Get(ctx context.Context, key string) (*T, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := w.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var v *T
	if err := json.Unmarshal(data, &v); err != nil {
		metrics.CacheOperations.WithLabelValues("wrapper", "corrupt").Inc()
		slog.Debug("cache: discard undecodable entry", "key", key, "err", err)
		return nil, nil
	}
	return v, nil
}

func (w *Wrapper[T]) Set(ctx context.Context, key string, value *T, expiresAt time.Time) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("%w: cache value is nil", pokedex.ErrInvalidArgument)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return w.store.Set(ctx, key, data, expiresAt)
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: cache key is empty", pokedex.ErrInvalidArgument)
	}
	return nil
}
