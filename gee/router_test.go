package gee

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// C4: 测试 404 Not Found
func TestNotFound(t *testing.T) {
	engine := New()
	engine.GET("/exists", func(ctx *Context) {
		ctx.String(200, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/not-exists", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

// C4: 测试自定义 NoRoute handler
func TestCustomNoRoute(t *testing.T) {
	engine := New()
	engine.NoRoute(func(ctx *Context) {
		ctx.JSON(http.StatusNotFound, H{"error": "page not found"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/not-exists", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	if !strings.Contains(w.Body.String(), "page not found") {
		t.Errorf("expected custom error message, got: %s", w.Body.String())
	}
}

// C4: 测试 405 Method Not Allowed
func TestMethodNotAllowed(t *testing.T) {
	engine := New()
	engine.GET("/test", func(ctx *Context) {
		ctx.String(200, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/test", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
}

// C4: 测试 405 返回 Allow header
func TestMethodNotAllowedWithAllowHeader(t *testing.T) {
	engine := New()
	engine.GET("/test", func(ctx *Context) {
		ctx.String(200, "ok")
	})
	engine.Handle("POST", "/test", func(ctx *Context) {
		ctx.String(200, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/test", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}

	allow := w.Header().Get("Allow")
	if allow == "" {
		t.Error("expected Allow header to be set")
	}
	if !strings.Contains(allow, "GET") || !strings.Contains(allow, "POST") {
		t.Errorf("expected Allow header to contain GET and POST, got: %s", allow)
	}
}

// C4: 测试自定义 NoMethod handler
func TestCustomNoMethod(t *testing.T) {
	engine := New()
	engine.NoMethod(func(ctx *Context) {
		ctx.JSON(http.StatusMethodNotAllowed, H{"error": "method not allowed"})
	})
	engine.GET("/test", func(ctx *Context) {
		ctx.String(200, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/test", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
	if !strings.Contains(w.Body.String(), "method not allowed") {
		t.Errorf("expected custom error message, got: %s", w.Body.String())
	}
}

// C4: 测试 404/405 也走 middleware
func TestNotFoundGoThroughMiddleware(t *testing.T) {
	middlewareExecuted := false

	engine := New()
	engine.Use(func(ctx *Context) {
		middlewareExecuted = true
		ctx.Next()
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/not-exists", nil)
	engine.ServeHTTP(w, req)

	if !middlewareExecuted {
		t.Error("middleware should be executed for 404")
	}
}

// C4: 测试 405 也走 middleware
func TestMethodNotAllowedGoThroughMiddleware(t *testing.T) {
	middlewareExecuted := false

	engine := New()
	engine.Use(func(ctx *Context) {
		middlewareExecuted = true
		ctx.Next()
	})
	engine.GET("/test", func(ctx *Context) {
		ctx.String(200, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/test", nil)
	engine.ServeHTTP(w, req)

	if !middlewareExecuted {
		t.Error("middleware should be executed for 405")
	}
}

// C4: 默认 404 返回 JSON ErrorResponse
func TestNotFoundReturnsErrorResponse(t *testing.T) {
	engine := New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/nowhere", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected json content type, got %s", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), `"code":404`) {
		t.Errorf("expected error code in body, got: %s", w.Body.String())
	}
}

// C4: 静态段优先于参数段，同一前缀下两条路由互不干扰
func TestStaticSegmentBeatsParam(t *testing.T) {
	engine := New()
	g := engine.Group("/pokemon")
	g.GET("/translated/:name", func(ctx *Context) {
		ctx.String(200, "translated %s", ctx.Param("name"))
	})
	g.GET("/:name", func(ctx *Context) {
		ctx.String(200, "basic %s", ctx.Param("name"))
	})

	cases := map[string]string{
		"/pokemon/mewtwo":            "basic mewtwo",
		"/pokemon/translated/mewtwo": "translated mewtwo",
		"/pokemon/translated":        "basic translated",
	}
	for path, want := range cases {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Errorf("%s: expected 200 %q, got %d %q", path, want, w.Code, w.Body.String())
		}
	}
}

// C4: HEAD 没有注册时回退到 GET
func TestHeadFallsBackToGet(t *testing.T) {
	engine := New()
	engine.GET("/pokemon/:name", func(ctx *Context) {
		ctx.String(200, "%s", ctx.Param("name"))
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("HEAD", "/pokemon/ditto", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("PUT", "/pokemon/ditto", nil))
	if allow := w.Header().Get("Allow"); allow != "GET,HEAD" {
		t.Errorf("expected Allow GET,HEAD, got %q", allow)
	}
}

// C4: 同一层两个不同名字的参数段注册时 panic
func TestConflictingWildcardPanics(t *testing.T) {
	engine := New()
	engine.GET("/pokemon/:name", func(ctx *Context) {})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for conflicting wildcard")
		}
	}()
	engine.GET("/pokemon/:id/moves", func(ctx *Context) {})
}

func TestRoutesAreSorted(t *testing.T) {
	engine := New()
	g := engine.Group("/pokemon")
	g.GET("/translated/:name", func(ctx *Context) {})
	g.GET("/:name", func(ctx *Context) {})
	engine.GET("/healthz", func(ctx *Context) {})

	got := engine.Routes()
	want := []RouteInfo{
		{Method: "GET", Pattern: "/healthz"},
		{Method: "GET", Pattern: "/pokemon/:name"},
		{Method: "GET", Pattern: "/pokemon/translated/:name"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("at %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
