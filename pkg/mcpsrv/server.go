package mcpsrv

import (
	"context"
	"fmt"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yinwusaya/zentao-mcp/internal/cache"
	"github.com/yinwusaya/zentao-mcp/internal/config"
	"github.com/yinwusaya/zentao-mcp/internal/imagepipe"
	"github.com/yinwusaya/zentao-mcp/internal/logging"
	"github.com/yinwusaya/zentao-mcp/internal/mcp"
	"github.com/yinwusaya/zentao-mcp/internal/mcp/tools"
	"github.com/yinwusaya/zentao-mcp/pkg/client"
)

// Server is the ZenTao MCP server.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates an MCP server exposing the builtin ZenTao tools.
//
// The client parameter is required and provides access to the tracker API.
// Use functional options to configure logging or register custom tools.
func NewServer(c *client.Client, opts ...Option) (*Server, error) {
	if c == nil {
		return nil, fmt.Errorf("client is required")
	}

	cfg := &serverConfig{
		config: config.Load(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logCfg := logging.Config{
		Level:      cfg.config.LogLevel,
		FilePath:   cfg.config.LogFile,
		MaxSizeMB:  cfg.config.LogMaxSizeMB,
		MaxBackups: cfg.config.LogMaxBackups,
		MaxAgeDays: cfg.config.LogMaxAgeDays,
		Compress:   cfg.config.LogCompress,
	}
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	// Build the image pipeline.
	imageCache, err := cache.New[imagepipe.FetchResult](cfg.config.ImageCacheMaxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}
	fetcher := imagepipe.NewFetcher(c, http.DefaultClient, cfg.config.ImageFetchTimeout, imageCache)
	uploader := imagepipe.NewUploader(
		cfg.config.ImageBedURL,
		cfg.config.ImageBedAuth,
		cfg.config.ImageBedFolder,
		http.DefaultClient,
		cfg.config.ImageUploadTimeout,
	)
	steps := imagepipe.NewProcessor(fetcher, uploader, cfg.config.FetchConcurrency)

	toolDeps := &tools.Deps{
		Client: c,
		Steps:  steps,
		Config: cfg.config,
	}
	deps := &Deps{
		Client: c,
		Steps:  steps,
		Config: cfg.config,
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport. It runs until the
// context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}
