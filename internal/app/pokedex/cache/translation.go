package cache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"pokedex.local/internal/app/pokedex"
)

// CachedTranslation 以 "translated:<name>" 为 key 包装翻译服务。
// 未命中时缓存完整结果，包括翻译失败时原样返回的记录。
type CachedTranslation struct {
	next   pokedex.TranslationService
	cache  *Wrapper[pokedex.Info]
	clock  pokedex.Clock
	ttl    time.Duration
	flight singleflight.Group
}

func NewCachedTranslation(next pokedex.TranslationService, store Store, clock pokedex.Clock, ttl time.Duration) *CachedTranslation {
	return &CachedTranslation{
		next:  next,
		cache: NewWrapper[pokedex.Info](store),
		clock: clock,
		ttl:   ttl,
	}
}

func (c *CachedTranslation) Translate(ctx context.Context, info *pokedex.Info) (*pokedex.Info, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: info is nil", pokedex.ErrInvalidArgument)
	}
	if err := pokedex.RequireName(info.Name); err != nil {
		return nil, err
	}

	key := pokedex.TranslatedKey(info.Name)
	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	result, _, err := joinFlight(ctx, &c.flight, key, func(ctx context.Context) (*pokedex.Info, error) {
		result, err := c.next.Translate(ctx, info)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(ctx, key, result, c.clock.Now().Add(c.ttl)); err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ pokedex.TranslationService = (*CachedTranslation)(nil)
