package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/strata-bim/strata/internal/model"
)

// entityPropertiesResponse is the JSON payload returned by the
// entity_properties tool.
type entityPropertiesResponse struct {
	Model string              `json:"model"`
	ID    uint32              `json:"id"`
	Sets  []model.PropertySet `json:"sets"`
	Total int                 `json:"total"`
}

// entityQuantitiesResponse is the JSON payload returned by the
// entity_quantities tool. Length values are in file units; multiply by
// LengthScale for metres.
type entityQuantitiesResponse struct {
	Model       string              `json:"model"`
	ID          uint32              `json:"id"`
	Sets        []model.QuantitySet `json:"sets"`
	Total       int                 `json:"total"`
	LengthScale float64             `json:"length_scale"`
}

// AddEntityPropertiesTool registers the entity_properties tool with an MCP
// server.
func AddEntityPropertiesTool(s *server.MCPServer, cache *ModelCache) {
	tool := mcp.NewTool(
		"entity_properties",
		mcp.WithDescription("Resolve every property set attached to an entity, its own sets and those inherited from its defining types. Locally bound sets shadow type-level sets of the same name."),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Model file path relative to the project root")),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Numeric entity id from the exchange file")),
		mcp.WithString("set",
			mcp.Description("Filter to one property set by name (e.g. 'Pset_WallCommon', case-insensitive)")),
	)

	s.AddTool(tool, createEntityPropertiesHandler(cache))
}

// createEntityPropertiesHandler creates the handler function for
// entity_properties.
func createEntityPropertiesHandler(cache *ModelCache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		id, err := parseEntityID(argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		setFilter, err := parseStringArg(argsMap, "set", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		lm, errResult := loadModelArg(ctx, cache, argsMap)
		if errResult != nil {
			return errResult, nil
		}

		all := lm.Store.Properties(id)
		sets := make([]model.PropertySet, 0, len(all))
		for _, set := range all {
			if setFilter != "" && !strings.EqualFold(set.Name, setFilter) {
				continue
			}
			sets = append(sets, set)
		}

		return toolJSON(&entityPropertiesResponse{
			Model: lm.Rel,
			ID:    id,
			Sets:  sets,
			Total: len(sets),
		})
	}
}

// AddEntityQuantitiesTool registers the entity_quantities tool with an MCP
// server.
func AddEntityQuantitiesTool(s *server.MCPServer, cache *ModelCache) {
	tool := mcp.NewTool(
		"entity_quantities",
		mcp.WithDescription("Resolve every quantity set attached to an entity: lengths, areas, volumes, counts, weights. Values are in the file's own units; the response carries the factor converting lengths to metres."),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Model file path relative to the project root")),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Numeric entity id from the exchange file")),
		mcp.WithString("set",
			mcp.Description("Filter to one quantity set by name (e.g. 'Qto_WallBaseQuantities', case-insensitive)")),
	)

	s.AddTool(tool, createEntityQuantitiesHandler(cache))
}

// createEntityQuantitiesHandler creates the handler function for
// entity_quantities.
func createEntityQuantitiesHandler(cache *ModelCache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		id, err := parseEntityID(argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		setFilter, err := parseStringArg(argsMap, "set", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		lm, errResult := loadModelArg(ctx, cache, argsMap)
		if errResult != nil {
			return errResult, nil
		}

		all := lm.Store.Quantities(id)
		sets := make([]model.QuantitySet, 0, len(all))
		for _, set := range all {
			if setFilter != "" && !strings.EqualFold(set.Name, setFilter) {
				continue
			}
			sets = append(sets, set)
		}

		return toolJSON(&entityQuantitiesResponse{
			Model:       lm.Rel,
			ID:          id,
			Sets:        sets,
			Total:       len(sets),
			LengthScale: lm.Store.LengthScale(),
		})
	}
}
