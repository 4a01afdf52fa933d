package mcpserver

import (
	"time"

	"github.com/strata-bim/strata/internal/ingest"
)

// ServerConfig contains configuration for the MCP server.
type ServerConfig struct {
	// RootDir is the project root model paths are resolved against.
	RootDir string

	// Ingest configures the on-demand model loads behind tool calls.
	Ingest *ingest.Config

	// MaxModels bounds how many loaded models the cache holds at once.
	MaxModels int

	// ModelTTL is how long an untouched model stays cached before eviction.
	ModelTTL time.Duration
}

// DefaultServerConfig returns the default MCP server configuration for a
// project root. Tool calls never write snapshots; the server reads models
// and keeps search live, nothing else.
func DefaultServerConfig(rootDir string) *ServerConfig {
	ingestCfg := ingest.DefaultConfig(rootDir)
	ingestCfg.SnapshotDir = ""
	ingestCfg.SearchEnabled = true

	return &ServerConfig{
		RootDir:   rootDir,
		Ingest:    ingestCfg,
		MaxModels: 4,
		ModelTTL:  30 * time.Minute,
	}
}
