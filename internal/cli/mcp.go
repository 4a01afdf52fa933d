package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strata-bim/strata/internal/config"
	"github.com/strata-bim/strata/internal/mcpserver"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for model queries",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered
assistants like Claude Code query the models in this project.

The MCP server:
- Loads model files on demand into a bounded in-memory cache
- Serves search, entity, property, material, and spatial tree tools
- Re-ingests models automatically when files change on disk
- Communicates via stdio (standard MCP transport)

Example:
  strata mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	// Get current working directory (project root)
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Load configuration from .strata/config.yml
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Show startup information on stderr; stdout carries the MCP transport.
	fmt.Fprintf(os.Stderr, "Strata MCP Server\n")
	fmt.Fprintf(os.Stderr, "Project Root: %s\n", rootDir)
	fmt.Fprintf(os.Stderr, "Model Cache: %d models, %dm idle TTL\n",
		cfg.MCP.MaxModels, cfg.MCP.ModelTTLMinutes)
	fmt.Fprintf(os.Stderr, "\n")

	server, err := mcpserver.NewMCPServer(cfg.ToServerConfig(rootDir))
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	// Serve (blocks until shutdown)
	if err := server.Serve(context.Background()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
