package config

import (
	"time"

	"github.com/strata-bim/strata/internal/mcpserver"
)

// ToServerConfig converts a Config to an mcpserver.ServerConfig.
// The MCP server never writes snapshots on its own loads; search stays
// enabled regardless of search.enabled since the search tool needs it.
func (c *Config) ToServerConfig(rootDir string) *mcpserver.ServerConfig {
	ingestCfg := c.ToIngestConfig(rootDir)
	ingestCfg.SnapshotDir = ""
	ingestCfg.SearchEnabled = true

	return &mcpserver.ServerConfig{
		RootDir:   rootDir,
		Ingest:    ingestCfg,
		MaxModels: c.MCP.MaxModels,
		ModelTTL:  time.Duration(c.MCP.ModelTTLMinutes) * time.Minute,
	}
}
