package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pokedex.local/internal/app/pokedex"
	"pokedex.local/internal/app/pokedex/cache"
	platformcache "pokedex.local/internal/platform/cache"
	"pokedex.local/internal/platform/config"
	"pokedex.local/internal/platform/db"
	"pokedex.local/internal/platform/migrate"
)

// backingStore 是按 CACHE_BACKEND 组装好的缓存存储
type backingStore struct {
	cache.Store
	ping  func(context.Context) error
	run   func(context.Context) // 后台任务（postgres 过期清理），可为 nil
	close func()
}

func openStore(ctx context.Context, cfg config.Config) (*backingStore, error) {
	switch {
	case cfg.NeedsRedis():
		return openRedisStore(cfg)
	case cfg.NeedsPostgres():
		return openPostgresStore(ctx, cfg)
	}

	switch cfg.CacheBackend {
	case config.BackendMap:
		s := cache.NewMemoryStore(pokedex.SystemClock{})
		return &backingStore{Store: s, ping: s.Ping, close: func() {}}, nil

	case config.BackendMemory:
		local, err := cache.NewLocalStore(cfg.LocalCacheMaxItems, cfg.LocalCacheMaxCost, 0)
		if err != nil {
			return nil, fmt.Errorf("local cache: %w", err)
		}
		return &backingStore{Store: local, ping: local.Ping, close: local.Close}, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
}

// openRedisStore 处理 redis 和 tiered 两种后端
func openRedisStore(cfg config.Config) (*backingStore, error) {
	client, err := platformcache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	slog.Info("redis 连接成功", "addr", cfg.RedisAddr)
	remote := cache.NewRedisStore(client)
	if cfg.CacheBackend == config.BackendRedis {
		return &backingStore{Store: remote, ping: remote.Ping, close: func() { _ = client.Close() }}, nil
	}

	local, err := cache.NewLocalStore(cfg.LocalCacheMaxItems, cfg.LocalCacheMaxCost, cfg.LocalCacheTTL)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("local cache: %w", err)
	}
	tiered := cache.NewTieredStore(local, remote)
	return &backingStore{Store: tiered, ping: tiered.Ping, close: func() {
		tiered.Close()
		_ = client.Close()
	}}, nil
}

func openPostgresStore(ctx context.Context, cfg config.Config) (*backingStore, error) {
	dbCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	pool, err := db.New(dbCtx, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(dbCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	slog.Info("数据库连接成功")

	res, err := migrate.Up(ctx, pool, migrate.Options{})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	slog.Info("migrations done", "applied", len(res.AppliedFiles), "skipped", len(res.SkippedFiles))

	pg := cache.NewPostgresStore(pool)
	return &backingStore{
		Store: pg,
		ping:  pg.Ping,
		run:   func(ctx context.Context) { pg.PurgeLoop(ctx, cfg.CachePurgeInterval) },
		close: pool.Close,
	}, nil
}
