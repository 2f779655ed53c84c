package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// joinFlight 把同一 key 的并发未命中合并为一次 fn 调用。
//
// fn 运行在 context.WithoutCancel(ctx) 上：发起者取消不会让其他等待者失败，
// 每个调用方只在自己的 ctx 结束时提前返回 ctx.Err()。
func joinFlight[T any](ctx context.Context, g *singleflight.Group, key string, fn func(context.Context) (T, error)) (T, bool, error) {
	detached := context.WithoutCancel(ctx)
	ch := g.DoChan(key, func() (any, error) {
		return fn(detached)
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Shared, res.Err
		}
		return res.Val.(T), res.Shared, nil
	}
}
