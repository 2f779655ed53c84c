package cache

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
	"pokedex.local/internal/app/pokedex"
)

// CachedSpecies 以 "basic:<name>" 为 key 包装物种查询。
//
// 命中直接返回成功结果；未命中才调用底层服务，且只缓存成功结果，
// 上游的临时故障在下一次请求时即可恢复，不需要等待 TTL。
// 同一 key 的并发未命中合并为一次上游调用，单个调用方取消不影响其他调用方。
type CachedSpecies struct {
	next   pokedex.SpeciesService
	cache  *Wrapper[pokedex.Info]
	clock  pokedex.Clock
	ttl    time.Duration
	flight singleflight.Group
}

func NewCachedSpecies(next pokedex.SpeciesService, store Store, clock pokedex.Clock, ttl time.Duration) *CachedSpecies {
	return &CachedSpecies{
		next:  next,
		cache: NewWrapper[pokedex.Info](store),
		clock: clock,
		ttl:   ttl,
	}
}

func (c *CachedSpecies) FetchRecord(ctx context.Context, name string) (pokedex.Outcome, error) {
	if err := pokedex.RequireName(name); err != nil {
		return pokedex.Outcome{}, err
	}

	key := pokedex.BasicKey(name)
	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		return pokedex.Outcome{}, err
	}
	if cached != nil {
		return pokedex.Succeeded(cached), nil
	}

	outcome, shared, err := joinFlight(ctx, &c.flight, key, func(ctx context.Context) (pokedex.Outcome, error) {
		outcome, err := c.next.FetchRecord(ctx, name)
		if err != nil {
			return pokedex.Outcome{}, err
		}
		if outcome.Success && outcome.Data != nil {
			if err := c.cache.Set(ctx, key, outcome.Data, c.clock.Now().Add(c.ttl)); err != nil {
				return pokedex.Outcome{}, err
			}
		}
		return outcome, nil
	})
	if err != nil {
		return pokedex.Outcome{}, err
	}
	if shared {
		slog.Debug("cache: joined in-flight lookup", "key", key)
	}
	return outcome, nil
}

var _ pokedex.SpeciesService = (*CachedSpecies)(nil)
