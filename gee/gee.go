package gee

import (
	"log/slog"
	"net/http"
	"strings"
)

type Engine struct {
	*RouterGroup
	router   *router
	groups   []*RouterGroup
	noMethod []HandlerFunc
	noRoute  []HandlerFunc
}

type RouterGroup struct {
	prefix      string
	middlewares []HandlerFunc
	parent      *RouterGroup
	engine      *Engine
}

// New 创建引擎；未匹配的路由和方法默认返回 JSON 格式的 ErrorResponse
func New() *Engine {
	engine := &Engine{
		router: newRouter(),
	}
	engine.noRoute = []HandlerFunc{func(ctx *Context) {
		ctx.AbortWithError(http.StatusNotFound, "route not found: "+ctx.Path)
	}}
	engine.noMethod = []HandlerFunc{func(ctx *Context) {
		ctx.AbortWithError(http.StatusMethodNotAllowed, "method not allowed: "+ctx.Method)
	}}
	engine.RouterGroup = &RouterGroup{engine: engine}
	engine.groups = []*RouterGroup{engine.RouterGroup}
	return engine
}

func (e *Engine) NoRoute(handlers ...HandlerFunc) {
	e.noRoute = handlers
}

func (e *Engine) NoMethod(handlers ...HandlerFunc) {
	e.noMethod = handlers
}

func (group *RouterGroup) Group(prefix string) *RouterGroup {
	engine := group.engine
	newGroup := &RouterGroup{
		prefix: group.prefix + prefix,
		parent: group,
		engine: engine,
	}
	engine.groups = append(engine.groups, newGroup)
	return newGroup
}

// Use 添加中间件
func (group *RouterGroup) Use(middlewares ...HandlerFunc) {
	group.middlewares = append(group.middlewares, middlewares...)
}

// Handle 注册任意方法的路由
func (group *RouterGroup) Handle(method string, comp string, handlers ...HandlerFunc) {
	pattern := group.prefix + comp
	slog.Debug("route registered", "method", method, "pattern", pattern)
	group.engine.router.addRoute(method, pattern, handlers...)
}

// GET defines the method to add GET request
func (group *RouterGroup) GET(pattern string, handlers ...HandlerFunc) {
	group.Handle(http.MethodGet, pattern, handlers...)
}

// Routes 返回已注册的路由，HEAD 不单独列出
func (e *Engine) Routes() []RouteInfo {
	return e.router.routes()
}

// ServeHTTP implements http.Handler interface
func (e *Engine) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var middlewares []HandlerFunc
	for _, group := range e.groups {
		if strings.HasPrefix(req.URL.Path, group.prefix) {
			middlewares = append(middlewares, group.middlewares...)
		}
	}
	ctx := newContext(w, req)
	ctx.handlers = middlewares
	ctx.engine = e
	e.router.handle(ctx)
}
