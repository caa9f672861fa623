package network

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// ListenAndServe listens on addr and serves until ctx is done.
func (h *Handler) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	return h.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then closes every
// session and shuts the HTTP server down gracefully. The idle reaper runs
// alongside the listener.
func (h *Handler) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !goerrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		return h.runReaper(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		h.log.Info("Shutting down", "active_sessions", h.Sessions())
		h.Close()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// ClientConfigSnippet returns a client configuration block pointing an MCP
// host at the /mcp endpoint of baseURL.
func ClientConfigSnippet(service, baseURL string) string {
	cfg := map[string]any{
		"mcpServers": map[string]any{
			service: map[string]string{
				"type": "http",
				"url":  baseURL + "/mcp",
			},
		},
	}

	out, _ := json.MarshalIndent(cfg, "", "  ")

	return string(out)
}
