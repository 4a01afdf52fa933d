package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/strata-bim/strata/internal/model"
)

// spatialTreeResponse is the JSON payload returned by the spatial_tree tool.
// Elevations are in file units; multiply by LengthScale for metres.
type spatialTreeResponse struct {
	Model       string             `json:"model"`
	Found       bool               `json:"found"`
	Root        *model.SpatialNode `json:"root,omitempty"`
	Nodes       int                `json:"nodes,omitempty"`
	LengthScale float64            `json:"length_scale,omitempty"`
}

// AddSpatialTreeTool registers the spatial_tree tool with an MCP server.
func AddSpatialTreeTool(s *server.MCPServer, cache *ModelCache) {
	tool := mcp.NewTool(
		"spatial_tree",
		mcp.WithDescription("Return the spatial containment hierarchy of a model: project, sites, buildings, storeys and spaces, each with its path, level and storey elevation."),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Model file path relative to the project root")),
		mcp.WithNumber("depth",
			mcp.Description("Limit the tree to this many levels, counting the root as 1 (default: full tree)")),
		mcp.WithBoolean("elements",
			mcp.Description("Include the entity ids contained in each node (default: false)")),
	)

	s.AddTool(tool, createSpatialTreeHandler(cache))
}

// createSpatialTreeHandler creates the handler function for spatial_tree.
func createSpatialTreeHandler(cache *ModelCache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		depth := parseIntArg(argsMap, "depth", 0)
		withElements := parseBoolArg(argsMap, "elements", false)

		lm, errResult := loadModelArg(ctx, cache, argsMap)
		if errResult != nil {
			return errResult, nil
		}

		response := &spatialTreeResponse{Model: lm.Rel}

		hier := lm.Store.Hierarchy()
		if hier == nil || hier.Root == nil {
			return toolJSON(response)
		}

		root := pruneTree(hier.Root, depth, withElements)
		response.Found = true
		response.Root = root
		response.Nodes = countNodes(root)
		response.LengthScale = lm.Store.LengthScale()

		return toolJSON(response)
	}
}

// pruneTree copies a spatial subtree down to depth levels, counting n as
// one. The store's tree is shared across requests and is never mutated.
// depth <= 0 copies the whole subtree.
func pruneTree(n *model.SpatialNode, depth int, withElements bool) *model.SpatialNode {
	out := &model.SpatialNode{
		ID:        n.ID,
		Type:      n.Type,
		Name:      n.Name,
		Path:      n.Path,
		Level:     n.Level,
		Elevation: n.Elevation,
	}
	if withElements {
		out.Elements = n.Elements
	}

	if depth == 1 {
		return out
	}
	next := depth - 1
	if depth <= 0 {
		next = 0
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, pruneTree(child, next, withElements))
	}
	return out
}

// countNodes tallies a spatial subtree including its root.
func countNodes(n *model.SpatialNode) int {
	total := 1
	for _, child := range n.Children {
		total += countNodes(child)
	}
	return total
}
