package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/strata-bim/strata/internal/model"
)

// entityInfoResponse is the JSON payload returned by the entity_info tool.
// RecordType is set when the id names a record the file has but the entity
// table did not keep (geometry internals, value set members).
type entityInfoResponse struct {
	Model      string      `json:"model"`
	ID         uint32      `json:"id"`
	Found      bool        `json:"found"`
	Entity     *model.Info `json:"entity,omitempty"`
	Storey     string      `json:"storey,omitempty"`
	RecordType string      `json:"record_type,omitempty"`
	Raw        string      `json:"raw,omitempty"`
}

// entityRelatedResponse is the JSON payload returned by the entity_related
// tool.
type entityRelatedResponse struct {
	Model     string           `json:"model"`
	ID        uint32           `json:"id"`
	Relations []model.Relation `json:"relations"`
	Total     int              `json:"total"`
}

// AddEntityInfoTool registers the entity_info tool with an MCP server.
func AddEntityInfoTool(s *server.MCPServer, cache *ModelCache) {
	tool := mcp.NewTool(
		"entity_info",
		mcp.WithDescription("Look up one entity's identity: type, global id, name, description, object type, geometry flag and enclosing storey. Optionally returns the raw record text."),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Model file path relative to the project root")),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Numeric entity id from the exchange file (e.g. 512 for #512)")),
		mcp.WithBoolean("include_raw",
			mcp.Description("Include the raw record text exactly as it appears in the file (default: false)")),
	)

	s.AddTool(tool, createEntityInfoHandler(cache))
}

// createEntityInfoHandler creates the handler function for entity_info.
func createEntityInfoHandler(cache *ModelCache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		id, err := parseEntityID(argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		lm, errResult := loadModelArg(ctx, cache, argsMap)
		if errResult != nil {
			return errResult, nil
		}

		response := &entityInfoResponse{Model: lm.Rel, ID: id}

		info, found := lm.Store.Entity(id)
		if found {
			response.Found = true
			response.Entity = &info
			response.Storey = storeyPathOf(lm.Store, id)
		} else if t, exists := lm.Store.Index().TypeOf(id); exists {
			response.RecordType = t
		}

		if parseBoolArg(argsMap, "include_raw", false) {
			if raw, ok := lm.Store.RawRecord(id); ok {
				response.Raw = raw
			}
		}

		return toolJSON(response)
	}
}

// AddEntityRelatedTool registers the entity_related tool with an MCP server.
func AddEntityRelatedTool(s *server.MCPServer, cache *ModelCache) {
	tool := mcp.NewTool(
		"entity_related",
		mcp.WithDescription("List every relationship touching an entity in both directions: containment, aggregation, type definition, property bindings, material and classification associations, openings and more."),
		mcp.WithString("model",
			mcp.Required(),
			mcp.Description("Model file path relative to the project root")),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Numeric entity id from the exchange file")),
		mcp.WithString("kind",
			mcp.Description("Filter by relationship kind (e.g. 'ContainedInSpatialStructure', 'Aggregates', 'DefinesByProperties')")),
		mcp.WithString("direction",
			mcp.Description("Filter by direction: 'forward' (entity is the relating side) or 'inverse'")),
	)

	s.AddTool(tool, createEntityRelatedHandler(cache))
}

// createEntityRelatedHandler creates the handler function for entity_related.
func createEntityRelatedHandler(cache *ModelCache) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		id, err := parseEntityID(argsMap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		kind, err := parseStringArg(argsMap, "kind", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		direction, err := parseStringArg(argsMap, "direction", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		direction = strings.ToLower(direction)
		if direction != "" && direction != "forward" && direction != "inverse" {
			return mcp.NewToolResultError("direction must be 'forward' or 'inverse'"), nil
		}

		lm, errResult := loadModelArg(ctx, cache, argsMap)
		if errResult != nil {
			return errResult, nil
		}

		all := lm.Store.Relationships(id)
		relations := make([]model.Relation, 0, len(all))
		for _, r := range all {
			if kind != "" && !strings.EqualFold(r.Kind, kind) {
				continue
			}
			if direction != "" && r.Direction != direction {
				continue
			}
			relations = append(relations, r)
		}

		return toolJSON(&entityRelatedResponse{
			Model:     lm.Rel,
			ID:        id,
			Relations: relations,
			Total:     len(relations),
		})
	}
}

// storeyPathOf resolves the containment path of the storey enclosing id.
func storeyPathOf(st *model.Store, id uint32) string {
	hier := st.Hierarchy()
	if hier == nil {
		return ""
	}
	storeyID, ok := hier.StoreyOf(id)
	if !ok {
		return ""
	}
	if node, ok := hier.Node(storeyID); ok {
		return node.Path
	}
	return ""
}
