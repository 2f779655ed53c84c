package middleware

import (
	"log/slog"
	"time"

	"pokedex.local/gee"
)

// AccessLog 每个请求一条记录；5xx 记 ERROR，4xx 记 WARN
func AccessLog() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		start := time.Now()

		ctx.Next()

		status := ctx.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		slog.LogAttrs(ctx.Req.Context(), level, "access",
			slog.String("request_id", ctx.RequestID()),
			slog.String("method", ctx.Method),
			slog.String("path", ctx.Path),
			slog.String("route", ctx.RoutePattern),
			slog.Int("status", status),
			slog.Int("bytes", ctx.Writer.Size()),
			slog.Int64("latency_ms", time.Since(start).Milliseconds()),
		)
	}
}
