package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/yinwusaya/zentao-mcp/internal/config"
	"github.com/yinwusaya/zentao-mcp/pkg/client"
	"github.com/yinwusaya/zentao-mcp/pkg/mcpsrv"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Tracker location, credentials, token TTL, and the image host are
	// all environment-configured (see internal/config for the full list).
	cfg := config.Load()
	zc := client.New(
		client.WithBaseURL(cfg.ZentaoURL),
		client.WithCredentials(cfg.ZentaoUsername, cfg.ZentaoPassword),
		client.WithAPIVersion(cfg.ZentaoAPIVer),
		client.WithTokenTTL(cfg.TokenTTL),
		client.WithHTTPClient(&http.Client{Timeout: cfg.HTTPClientTimeout}),
	)

	server, err := mcpsrv.NewServer(zc)
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}
	defer server.Close()

	slog.Info("starting zentao MCP server on stdio")
	if err := server.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
