// Package transport serves the MCP server over the supported transports:
// a local stdio pipe or a network-exposed streamable HTTP endpoint.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wordware-ai/wordware-mcp/pkg/config"
)

// RunStdio serves the MCP server over stdin/stdout until the context is
// cancelled or the client disconnects.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	slog.Info("serving MCP over stdio")
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the MCP server over streamable HTTP at /mcp, with health
// and (optionally) Prometheus metrics endpoints alongside. It blocks until
// the context is cancelled, then drains with a 10s grace period.
func RunHTTP(ctx context.Context, server *mcp.Server, cfg config.ServerConfig, metrics config.MetricsConfig) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if metrics.Enabled {
		mux.Handle("GET "+metrics.Path, promhttp.Handler())
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving MCP over HTTP", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
