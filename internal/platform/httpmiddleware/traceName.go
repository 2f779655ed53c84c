package httpmiddleware

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pokedex.local/gee"
)

// TraceName 用路由模板给 otelhttp 建的 span 改名，/pokemon/mewtwo 记为 "GET /pokemon/:name"
func TraceName() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		span := trace.SpanFromContext(ctx.Req.Context())
		if span.IsRecording() && ctx.RoutePattern != "" {
			span.SetName(ctx.Method + " " + ctx.RoutePattern)
			span.SetAttributes(attribute.String("http.route", ctx.RoutePattern))
		}
		ctx.Next()
	}
}
