package gee

import (
	"net/http"
	"sort"
	"strings"
)

type HandlerFunc func(*Context)

// RouteInfo 描述一条已注册的路由
type RouteInfo struct {
	Method  string
	Pattern string
}

type routeKey struct {
	method  string
	pattern string
}

// 每个 method 一棵 trie，handler 按 (method, pattern) 索引
type router struct {
	roots    map[string]*node
	handlers map[routeKey][]HandlerFunc
}

func newRouter() *router {
	return &router{
		roots:    make(map[string]*node),
		handlers: make(map[routeKey][]HandlerFunc),
	}
}

// parsePattern 切分路径，遇到 *wildcard 后的段全部丢弃
func parsePattern(pattern string) []string {
	parts := make([]string, 0, strings.Count(pattern, "/"))
	for _, item := range strings.Split(pattern, "/") {
		if item == "" {
			continue
		}
		parts = append(parts, item)
		if item[0] == '*' {
			break
		}
	}
	return parts
}

func (r *router) addRoute(method string, pattern string, handlers ...HandlerFunc) {
	if len(handlers) == 0 {
		panic("gee: addRoute requires at least one handler")
	}
	root, ok := r.roots[method]
	if !ok {
		root = &node{}
		r.roots[method] = root
	}
	root.insert(pattern, parsePattern(pattern), 0)
	r.handlers[routeKey{method, pattern}] = append([]HandlerFunc(nil), handlers...)
}

func (r *router) getRoute(method string, path string) (*node, map[string]string) {
	root, ok := r.roots[method]
	if !ok {
		return nil, nil
	}
	searchParts := parsePattern(path)
	n := root.search(searchParts, 0)
	if n == nil {
		return nil, nil
	}

	params := make(map[string]string)
	for i, part := range parsePattern(n.pattern) {
		switch {
		case part[0] == ':':
			params[part[1:]] = searchParts[i]
		case part[0] == '*' && len(part) > 1:
			params[part[1:]] = strings.Join(searchParts[i:], "/")
		}
		if part[0] == '*' {
			break
		}
	}
	return n, params
}

// lookup 找到请求对应的 handler；HEAD 没有单独注册时回退到 GET
func (r *router) lookup(method, path string) (routeKey, map[string]string, bool) {
	n, params := r.getRoute(method, path)
	if n == nil && method == http.MethodHead {
		method = http.MethodGet
		n, params = r.getRoute(method, path)
	}
	if n == nil {
		return routeKey{}, nil, false
	}
	return routeKey{method, n.pattern}, params, true
}

func (r *router) handle(c *Context) {
	key, params, ok := r.lookup(c.Method, c.Path)
	if ok {
		c.Params = params
		c.RoutePattern = key.pattern
		c.handlers = append(c.handlers, r.handlers[key]...)
	} else {
		allow := r.AllowedMethod(c.Path)
		if len(allow) == 0 {
			c.handlers = append(c.handlers, c.engine.noRoute...)
		} else {
			c.SetHeader("Allow", strings.Join(allow, ","))
			c.handlers = append(c.handlers, c.engine.noMethod...)
		}
	}
	c.Next()
}

// AllowedMethod 返回能匹配 path 的方法（有 GET 即隐含 HEAD）
func (r *router) AllowedMethod(path string) (allow []string) {
	seen := make(map[string]bool)
	for method := range r.roots {
		if n, _ := r.getRoute(method, path); n == nil {
			continue
		}
		seen[method] = true
		if method == http.MethodGet {
			seen[http.MethodHead] = true
		}
	}
	for method := range seen {
		allow = append(allow, method)
	}
	sort.Strings(allow)
	return allow
}

// routes 按 method、pattern 排序返回全部路由
func (r *router) routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(r.handlers))
	for key := range r.handlers {
		out = append(out, RouteInfo{Method: key.method, Pattern: key.pattern})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Method != out[j].Method {
			return out[i].Method < out[j].Method
		}
		return out[i].Pattern < out[j].Pattern
	})
	return out
}
