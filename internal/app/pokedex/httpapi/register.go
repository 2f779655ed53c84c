package httpapi

import (
	"pokedex.local/gee"
)

// RegisterRoutes 在根路由上挂载两个只读查询：
//
//	GET /pokemon/:name             基础信息
//	GET /pokemon/translated/:name  翻译后的信息
//
// 本包只做传输层工作（参数、错误映射、响应格式），逻辑在 internal/app/pokedex/query。
func RegisterRoutes(engine *gee.Engine, q Queries) {
	g := engine.Group("/pokemon")
	g.GET("/translated/:name", NewTranslatedInfoHandler(q))
	g.GET("/:name", NewBasicInfoHandler(q))
}
