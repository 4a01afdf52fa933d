package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/strata-bim/strata/internal/search"
)

// modelSearchResponse is the JSON payload returned by the model_search tool.
type modelSearchResponse struct {
	Model   string           `json:"model"`
	Query   string           `json:"query"`
	Results []*search.Result `json:"results"`
	Total   int              `json:"total"`
}

// AddModelSearchTool registers the model_search tool with an MCP server.
// This function is composable - it can be combined with other tool
// registrations.
func AddModelSearchTool(s *server.MCPServer, cache *ModelCache) {
	tool := mcp.NewTool(
		"model_search",
		mcp.WithDescription("Search entities in an ingested model by name, description, object type or global id. Supports field scoping (name:door), boolean operators, phrases, wildcards and fuzzy matching."),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Model file path relative to the project root (e.g. 'models/tower.ifc')")),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query (e.g. 'north wall', 'name:door*', 'concrete AND external')")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (1-100, default: 15)")),
		mcp.WithString("type",
			mcp.Description("Exact entity type filter (e.g. 'IFCWALL')")),
		mcp.WithString("storey",
			mcp.Description("Restrict hits to storeys whose containment path matches all given terms (e.g. 'Level 1')")),
	)

	s.AddTool(tool, createModelSearchHandler(cache))
}

// createModelSearchHandler creates the handler function for model_search.
func createModelSearchHandler(cache *ModelCache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		query, err := parseStringArg(argsMap, "query", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		lm, errResult := loadModelArg(ctx, cache, argsMap)
		if errResult != nil {
			return errResult, nil
		}
		if lm.Searcher == nil {
			return mcp.NewToolResultError("search is disabled for this server"), nil
		}

		typeFilter, err := parseStringArg(argsMap, "type", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		storey, err := parseStringArg(argsMap, "storey", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		options := &search.Options{
			Limit:  parseClampedInt(argsMap, "limit", 15, 1, 100),
			Type:   typeFilter,
			Storey: storey,
		}

		results, err := lm.Searcher.Search(ctx, query, options)
		if err != nil {
			return nil, fmt.Errorf("search failed: %w", err)
		}

		return toolJSON(&modelSearchResponse{
			Model:   lm.Rel,
			Query:   query,
			Results: results,
			Total:   len(results),
		})
	}
}
