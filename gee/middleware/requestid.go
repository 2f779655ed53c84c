package middleware

import (
	"github.com/google/uuid"
	"pokedex.local/gee"
)

// ReqID 透传调用方的 X-Request-ID，没有时生成一个 uuid；同时写回请求头和响应头
func ReqID() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		id := ctx.RequestID()
		if id == "" {
			id = uuid.NewString()
			ctx.Req.Header.Set(gee.RequestIDHeader, id)
		}
		ctx.SetHeader(gee.RequestIDHeader, id)

		ctx.Next()
	}
}
