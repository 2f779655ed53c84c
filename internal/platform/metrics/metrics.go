package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// once 用来保证指标只注册一次。
	// Prometheus 的 registry 不允许重复注册同名指标，否则会直接 panic。
	once sync.Once

	// HTTPRequestsTotal：累计请求数（Counter）。
	//
	// labels：
	// - method：HTTP 方法，例如 GET
	// - route：路由模板（例如 /pokemon/:name；不要用真实 path，否则会产生无限 label）
	// - status：HTTP 状态码字符串，例如 "200"/"404"/"502"
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "HTTP请求的总数",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds：请求耗时分布（Histogram），用于计算 P95/P99。
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// HTTPInflightRequests：当前正在处理中的请求数（Gauge）。
	HTTPInflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// CacheOperations：缓存读写结果。
	//
	// labels：
	// - backend：l1 / l2 / memory / postgres / wrapper
	// - result：hit / miss / set / error / corrupt
	CacheOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations by backend and result.",
		},
		[]string{"backend", "result"},
	)

	// UpstreamRequests：对外部 API 的调用次数。
	//
	// labels：
	// - upstream：species / yoda / shakespeare
	// - status：HTTP 状态码字符串；传输失败时为 "error"
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Requests sent to upstream APIs.",
		},
		[]string{"upstream", "status"},
	)

	// TranslatorSelections：翻译链每次选中的翻译器（都不匹配时为 "none"）。
	TranslatorSelections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translator_selections_total",
			Help: "Translator picked by the translation chain.",
		},
		[]string{"translator"},
	)
)

// Init 注册指标：只允许注册一次（否则 panic: duplicate metrics collector registration）
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			HTTPInflightRequests,
			CacheOperations,
			UpstreamRequests,
			TranslatorSelections,
		)
	})
}
