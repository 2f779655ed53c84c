package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"pokedex.local/gee"
	"pokedex.local/internal/app/pokedex"
)

// Queries 是 handler 依赖的读接口，由 query.Handler 实现。
type Queries interface {
	GetBasicInfo(ctx context.Context, name string) (pokedex.Info, error)
	GetTranslatedInfo(ctx context.Context, name string) (pokedex.Info, error)
}

type InfoResponse struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Habitat     *string `json:"habitat"`
	IsLegendary bool    `json:"isLegendary"`
}

func toResponse(info pokedex.Info) InfoResponse {
	return InfoResponse{
		Name:        info.Name,
		Description: info.Description,
		Habitat:     info.Habitat,
		IsLegendary: info.IsLegendary,
	}
}

func NewBasicInfoHandler(q Queries) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		name := ctx.Param("name")
		info, err := q.GetBasicInfo(ctx.Req.Context(), name)
		if err != nil {
			writeError(ctx, name, err)
			return
		}
		ctx.JSON(http.StatusOK, toResponse(info))
	}
}

func NewTranslatedInfoHandler(q Queries) gee.HandlerFunc {
	return func(ctx *gee.Context) {
		name := ctx.Param("name")
		info, err := q.GetTranslatedInfo(ctx.Req.Context(), name)
		if err != nil {
			writeError(ctx, name, err)
			return
		}
		ctx.JSON(http.StatusOK, toResponse(info))
	}
}

// writeError 把领域错误映射成 HTTP 状态码：
// - UpstreamError：沿用上游状态码（格式错误时为 200）
// - 参数错误：400
// - 请求取消/超时：503
// - 其他（网络、缓存后端）：502
func writeError(ctx *gee.Context, name string, err error) {
	var upErr *pokedex.UpstreamError
	switch {
	case errors.As(err, &upErr):
		ctx.AbortWithError(upErr.StatusCode, upErr.Message)
	case errors.Is(err, pokedex.ErrInvalidArgument):
		ctx.AbortWithError(http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		slog.Warn("pokemon lookup interrupted", "name", name, "err", err)
		ctx.AbortWithError(http.StatusServiceUnavailable, "request canceled or timed out")
	default:
		slog.Error("pokemon lookup failed", "name", name, "err", err)
		ctx.AbortWithError(http.StatusBadGateway, "upstream unavailable")
	}
}
