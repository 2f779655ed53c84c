package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"pokedex.local/gee"
	"pokedex.local/gee/middleware"
	"pokedex.local/internal/app/pokedex"
	"pokedex.local/internal/app/pokedex/cache"
	"pokedex.local/internal/app/pokedex/httpapi"
	"pokedex.local/internal/app/pokedex/query"
	"pokedex.local/internal/app/pokedex/species"
	"pokedex.local/internal/app/pokedex/translate"
	"pokedex.local/internal/platform/config"
	"pokedex.local/internal/platform/httpmiddleware"
	"pokedex.local/internal/platform/httpserver"
	"pokedex.local/internal/platform/metrics"
	"pokedex.local/internal/platform/trace"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	slog.SetDefault(slog.New(h))

	metrics.Init()

	if cfg.TracingEnabled {
		shutdown, err := trace.InitTrace(cfg.OtlpGrpcEndpoint, cfg.OtlpServiceName, version)
		if err != nil {
			slog.Error("Trace init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					slog.Error(err.Error())
				}
			}()
		}
	} else {
		slog.Warn("Tracing disabled by config", "TRACING_ENABLED", false)
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 缓存
	store, err := openStore(stopCtx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.close()
	slog.Info("cache ready", "backend", cfg.CacheBackend, "layer", cfg.CacheLayer, "ttl", cfg.CacheTTL)

	// 上游
	upstream := &http.Client{
		Timeout:   cfg.UpstreamTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	var speciesSvc pokedex.SpeciesService = species.NewClient(cfg.SpeciesAPIBaseURL, upstream)
	translations := translate.NewClient(cfg.TranslationsBaseURL, upstream)
	// 顺序即优先级：Shakespeare 兜底，必须放最后
	var translationSvc pokedex.TranslationService = translate.NewService(
		translate.NewYoda(translations),
		translate.NewShakespeare(translations),
	)

	clock := pokedex.SystemClock{}
	var opts []query.Option
	switch cfg.CacheLayer {
	case config.LayerHandler:
		opts = append(opts, query.WithCache(store, clock, cfg.CacheTTL))
	default:
		speciesSvc = cache.NewCachedSpecies(speciesSvc, store, clock, cfg.CacheTTL)
		translationSvc = cache.NewCachedTranslation(translationSvc, store, clock, cfg.CacheTTL)
	}
	queries := query.NewHandler(speciesSvc, translationSvc, opts...)

	// 对外业务
	r := gee.New()
	r.Use(gee.Recovery(), middleware.ReqID(), middleware.AccessLog(), httpmiddleware.Metrics(), httpmiddleware.TraceName())

	httpapi.RegisterRoutes(r, queries)

	r.GET("/healthz", func(ctx *gee.Context) {
		ctx.String(http.StatusOK, "ok")
	})
	for _, rt := range r.Routes() {
		slog.Info("route", "method", rt.Method, "pattern", rt.Pattern)
	}

	publicHandler := http.Handler(r)
	if cfg.TracingEnabled {
		publicHandler = otelhttp.NewHandler(r, "http")
	}
	publicSrv := httpserver.New(cfg, publicHandler)

	// 仅本机/内网
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	// 缓存后端连接状态检测
	adminMux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := store.ping(ctx); err != nil {
			slog.Warn("readyz: cache ping failed", "backend", cfg.CacheBackend, "err", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("cache not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	adminMux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"service_name":  cfg.ServiceName,
			"version":       version,
			"commit":        commit,
			"build_time":    buildTime,
			"go_version":    runtime.Version(),
			"cache_backend": cfg.CacheBackend,
			"cache_layer":   cfg.CacheLayer,
		})
	})

	if cfg.PprofEnabled {
		adminMux.HandleFunc("/debug/pprof/", pprof.Index)
		adminMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		adminMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		adminMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		adminMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	adminSrv := httpserver.NewAdmin(cfg, adminMux) // 推荐：127.0.0.1:6060

	if store.run != nil {
		go store.run(stopCtx)
	}

	errch := make(chan error, 2)

	go func() {
		errch <- httpserver.RunWithGracefulShutdownContext(publicSrv, cfg.ShutdownTimeout, stopCtx)
	}()
	go func() {
		errch <- httpserver.RunWithGracefulShutdownContext(adminSrv, cfg.ShutdownTimeout, stopCtx)
	}()
	slog.Info("pokedex api started", "addr", cfg.Addr, "admin_addr", cfg.AdminAddr)

	err = <-errch
	if err != nil {
		stop()
		select {
		case <-errch:
		case <-time.After(cfg.ShutdownTimeout + time.Second):
		}
		log.Fatal(err)
	}

	stop()
	<-errch
}
