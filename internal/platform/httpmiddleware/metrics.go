package httpmiddleware

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"pokedex.local/gee"
	"pokedex.local/internal/platform/metrics"
)

// UnmatchedRoute 是 404/405 请求的 route 标签，避免真实 path 撑爆 label 基数
const UnmatchedRoute = "UNMATCHED"

func Metrics() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		route := ctx.RoutePattern
		if route == "" {
			route = UnmatchedRoute
		}
		metrics.HTTPInflightRequests.Inc()
		timer := prometheus.NewTimer(metrics.HTTPRequestDurationSeconds.WithLabelValues(ctx.Method, route))
		defer func() {
			timer.ObserveDuration()
			metrics.HTTPInflightRequests.Dec()
			metrics.HTTPRequestsTotal.WithLabelValues(ctx.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		}()
		ctx.Next()
	}
}
