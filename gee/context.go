package gee

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
)

type H map[string]any

// abortIndex must be large enough to exceed any real handler index, but not so
// large that nested Next() loops can overflow when multiple stack frames
// increment c.index after Abort().
const abortIndex = math.MaxInt32

// RequestIDHeader 由 middleware.ReqID 写入请求和响应头
const RequestIDHeader = "X-Request-ID"

type Context struct {
	Writer *ResponseWriter
	Req    *http.Request
	//请求消息
	Path         string
	Method       string
	Params       map[string]string
	RoutePattern string
	//中间件
	handlers []HandlerFunc
	index    int
	//engine
	engine *Engine
}

func (c *Context) Param(key string) string {
	return c.Params[key]
}

func newContext(w http.ResponseWriter, req *http.Request) *Context {
	return &Context{
		Writer: NewResponseWriter(w),
		Req:    req,
		Path:   req.URL.Path,
		Method: req.Method,
		index:  -1,
	}
}

func (c *Context) Next() {
	c.index++
	s := len(c.handlers)
	for ; c.index < s && !c.IsAborted(); c.index++ {
		c.handlers[c.index](c)
	}
}

// RequestID 返回当前请求的 id，没有经过 ReqID 中间件时为空
func (c *Context) RequestID() string {
	return c.Req.Header.Get(RequestIDHeader)
}

func (c *Context) Status(code int) {
	c.Writer.WriteHeader(code)
}

func (c *Context) SetHeader(key string, value string) {
	c.Writer.SetHeader(key, value)
}

func (c *Context) String(code int, format string, values ...any) {
	c.SetHeader("Content-Type", "text/plain")
	c.Status(code)
	c.Writer.Write([]byte(fmt.Sprintf(format, values...)))
}

// JSON 直接编码到响应流
func (c *Context) JSON(code int, obj any) {
	c.SetHeader("Content-Type", "application/json")
	c.Status(code)
	encoder := json.NewEncoder(c.Writer)
	if err := encoder.Encode(obj); err != nil {
		http.Error(c.Writer, err.Error(), 500)
	}
}

func (c *Context) Fail(code int, format string) {
	c.String(code, "%s", format)
	c.Abort()
}

func (c *Context) Abort() {
	c.index = abortIndex
}
func (c *Context) IsAborted() bool {
	return c.index >= abortIndex
}

func (c *Context) AbortWithStatus(code int) {
	c.Status(code)
	c.Abort()
}

func (c *Context) AbortWithStatusJSON(code int, obj any) {
	c.Abort()

	if c.Writer.Written() {
		return
	}

	bytes, err := json.Marshal(obj)
	if err != nil {
		code = http.StatusInternalServerError
		bytes = []byte(`{"code":500,"message":"Internal Server Error"}`)

	}
	c.SetHeader("Content-Type", "application/json")
	c.Status(code)
	c.Writer.Write(bytes)
}

func (c *Context) AbortWithError(code int, message string) {
	errorRep := NewErrorResponse(c, code, message)
	c.AbortWithStatusJSON(code, errorRep)
}
