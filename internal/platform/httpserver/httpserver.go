package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"pokedex.local/internal/platform/config"
)

func New(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		Addr:              cfg.Addr,
	}
}

// NewAdmin 管理端口（metrics/readyz/pprof），只换地址，超时与对外服务一致
func NewAdmin(cfg config.Config, handler http.Handler) *http.Server {
	srv := New(cfg, handler)
	srv.Addr = cfg.AdminAddr
	return srv
}

// RunWithGracefulShutdownContext 阻塞直到 stopCtx 结束或监听失败；stopCtx 结束后最多等待 shutdownTimeout
func RunWithGracefulShutdownContext(srv *http.Server, shutdownTimeout time.Duration, stopCtx context.Context) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	return Serve(srv, ln, shutdownTimeout, stopCtx)
}

func Serve(srv *http.Server, ln net.Listener, shutdownTimeout time.Duration, stopCtx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stopCtx.Done():
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}
	return nil
}
