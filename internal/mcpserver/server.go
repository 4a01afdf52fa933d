package mcpserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/strata-bim/strata/internal/logger"
)

// MCPServer manages the MCP server lifecycle.
type MCPServer struct {
	config  *ServerConfig
	cache   *ModelCache
	watcher *FileWatcher
	mcp     *server.MCPServer
}

// NewMCPServer creates an MCP server over a project root. Models load
// lazily on the first tool call that names them.
func NewMCPServer(config *ServerConfig) (*MCPServer, error) {
	if config == nil {
		config = DefaultServerConfig(".")
	}

	cache, err := NewModelCache(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create model cache: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"strata-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	AddModelSearchTool(mcpServer, cache)
	AddEntityInfoTool(mcpServer, cache)
	AddEntityPropertiesTool(mcpServer, cache)
	AddEntityQuantitiesTool(mcpServer, cache)
	AddEntityMaterialTool(mcpServer, cache)
	AddEntityClassificationsTool(mcpServer, cache)
	AddEntityDocumentsTool(mcpServer, cache)
	AddEntityRelatedTool(mcpServer, cache)
	AddSpatialTreeTool(mcpServer, cache)

	debounce := 500 * time.Millisecond
	if config.Ingest != nil && config.Ingest.DebounceMS > 0 {
		debounce = time.Duration(config.Ingest.DebounceMS) * time.Millisecond
	}

	watcher, err := NewFileWatcher(cache, cache.ingestConfig(), debounce)
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &MCPServer{
		config:  config,
		cache:   cache,
		watcher: watcher,
		mcp:     mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	// Start invalidation watcher
	s.watcher.Start(ctx)
	defer s.watcher.Stop()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Start MCP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting MCP server on stdio (root %s)", s.cache.RootDir())
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigCh:
		logger.Infof("Received shutdown signal, stopping gracefully...")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases all resources.
func (s *MCPServer) Close() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
