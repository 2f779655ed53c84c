package gee

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
)

// stack 收集 panic 发生处的调用栈，跳过 runtime 和 Recovery 自身
func stack(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "runtime.") {
			fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		}
		if !more {
			break
		}
	}
	return b.String()
}

// Recovery 把 handler 的 panic 转成 500 ErrorResponse。
// http.ErrAbortHandler 原样抛出，交给 net/http 断开连接。
func Recovery() HandlerFunc {
	return func(ctx *Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			slog.ErrorContext(ctx.Req.Context(), "panic recovered",
				"request_id", ctx.RequestID(),
				"method", ctx.Method,
				"path", ctx.Path,
				"route", ctx.RoutePattern,
				"panic", fmt.Sprint(rec),
				"stack", stack(4),
			)
			if ctx.Writer.Written() {
				ctx.Abort()
				return
			}
			ctx.AbortWithError(http.StatusInternalServerError, "Internal Server Error")
		}()
		ctx.Next()
	}
}
