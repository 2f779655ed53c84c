package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"pokedex.local/gee"
	"pokedex.local/internal/platform/metrics"
)

func TestMetrics_UsesRoutePattern(t *testing.T) {
	engine := gee.New()
	engine.Use(Metrics(), TraceName())
	engine.GET("/pokemon/:name", func(ctx *gee.Context) {
		ctx.String(http.StatusOK, "ok")
	})

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/pokemon/:name", "200"))
	unmatched := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", UnmatchedRoute, "404"))

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pokemon/mew", nil))
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pokemon/mewtwo", nil))
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/a/b", nil))

	assert.Equal(t, before+2, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/pokemon/:name", "200")))
	assert.Equal(t, unmatched+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", UnmatchedRoute, "404")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.HTTPInflightRequests))
}
